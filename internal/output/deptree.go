// Package output renders reconciliation reports and dependency trees.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// normalizedTree is the document written by WriteDependencyTree.
type normalizedTree struct {
	Dependencies model.Forest `json:"dependencies"`
}

// WriteDependencyTree serialises a forest in the normalized tree JSON format
// and writes it to outputPath. If outputPath is "-", it writes to stdout.
//
// Example output:
//
//	{
//	  "dependencies": [
//	    {
//	      "package_name": "requests",
//	      "installed_version": "2.31.0",
//	      "required_version": "Any",
//	      "dependencies": [
//	        {
//	          "package_name": "idna",
//	          "installed_version": "3.4",
//	          "required_version": ">=2.5",
//	          "dependencies": []
//	        }
//	      ]
//	    }
//	  ]
//	}
func WriteDependencyTree(forest model.Forest, outputPath string) error {
	if forest == nil {
		// Emit an empty array rather than null
		forest = model.Forest{}
	}

	data, err := json.MarshalIndent(normalizedTree{Dependencies: forest}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dependency tree JSON: %w", err)
	}
	return writeOutput(outputPath, append(data, '\n'))
}

// writeOutput writes data to outputPath, or to stdout if outputPath is "-".
func writeOutput(outputPath string, data []byte) error {
	if outputPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}
