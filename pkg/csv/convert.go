// Package csv provides conversion between AST nodes and rows of strings.
package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// RecordsToNode converts rows of field values to an AST node.
//
// The result is an *ast.ArrayDataNode (file) of *ast.ArrayDataNode (record)
// of *ast.LiteralNode (field) holding string values.
//
// Example:
//
//	records := [][]string{
//	    {"name", "age"},
//	    {"Alice", "30"},
//	}
//	node, _ := csv.RecordsToNode(records)
func RecordsToNode(records [][]string) (ast.SchemaNode, error) {
	// Use empty position since the table carries no token positions
	pos := ast.ZeroPosition()

	nodes := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		fields := make([]ast.SchemaNode, len(record))
		for j, field := range record {
			fields[j] = ast.NewLiteralNode(field, pos)
		}
		nodes[i] = ast.NewArrayDataNode(fields, pos)
	}

	return ast.NewArrayDataNode(nodes, pos), nil
}

// NodeToRecords converts an AST node produced by Parse or RecordsToNode back
// to rows of field values.
//
// Returns an error if the node is not a file of records of string literals.
//
// Example:
//
//	node, _ := csv.Parse("name,age\r\nAlice,30\r\n")
//	records, _ := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	elements := arrayNode.Elements()
	records := make([][]string, 0, len(elements))

	for i, elem := range elements {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("record %d: expected *ast.ArrayDataNode, got %T", i, elem)
		}

		fields := make([]string, 0, recordNode.Len())
		for j, fieldNode := range recordNode.Elements() {
			literalNode, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("record %d field %d: expected *ast.LiteralNode, got %T", i, j, fieldNode)
			}

			value, ok := literalNode.Value().(string)
			if !ok {
				return nil, fmt.Errorf("record %d field %d: expected string value, got %T", i, j, literalNode.Value())
			}

			fields = append(fields, value)
		}

		records = append(records, fields)
	}

	return records, nil
}
