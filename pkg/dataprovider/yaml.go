package dataprovider

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// readYAML reads a document of the form
//
//	Sheet1:
//	  - [username, password]
//	  - [standard_user, secret_sauce]
func readYAML(path, sheet string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string][][]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	raw, ok := doc[sheet]
	if !ok {
		return nil, nil
	}

	rows := make([][]string, 0, len(raw))
	for _, row := range raw {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = scalarString(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func scalarString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
