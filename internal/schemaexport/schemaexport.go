// Package schemaexport renders the catalog's tables, columns, and indices
// as a human-readable TOML document (BurntSushi/toml), the "sqlcore schema
// dump" feature supplementing spec.md: the original Milestone sources have
// no equivalent, but every cataloged system in the pack exposes some
// inspection/export surface, so this repo adds one.
package schemaexport

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/ninanguyen24/sqlcore/internal/catalog"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// ColumnDoc is one column entry within a TableDoc.
type ColumnDoc struct {
	Name     string `toml:"name"`
	DataType string `toml:"data_type"`
}

// IndexDoc is one index entry within a TableDoc.
type IndexDoc struct {
	Name     string   `toml:"name"`
	Columns  []string `toml:"columns"`
	Type     string   `toml:"type"`
	IsUnique bool     `toml:"is_unique"`
}

// TableDoc is one user table's exported shape.
type TableDoc struct {
	Name    string      `toml:"name"`
	Columns []ColumnDoc `toml:"columns"`
	Indices []IndexDoc  `toml:"indices"`
}

// Document is the top-level export envelope.
type Document struct {
	Tables []TableDoc `toml:"tables"`
}

// Build reads every user table (schema relations excluded) out of cat and
// assembles a Document.
func Build(cat *catalog.Catalog) (*Document, error) {
	handles, err := cat.Tables().Select(nil)
	if err != nil {
		return nil, fmt.Errorf("schemaexport: list tables: %w", err)
	}

	var names []string
	for _, h := range handles {
		row, err := cat.Tables().Project(h, nil)
		if err != nil {
			return nil, fmt.Errorf("schemaexport: project table row: %w", err)
		}
		name := row["table_name"].S
		if catalog.Protected(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	doc := &Document{}
	for _, name := range names {
		tableDoc, err := buildTable(cat, name)
		if err != nil {
			return nil, err
		}
		doc.Tables = append(doc.Tables, tableDoc)
	}
	return doc, nil
}

func buildTable(cat *catalog.Catalog, name string) (TableDoc, error) {
	colHandles, err := cat.Columns().Select(value.Row{"table_name": value.Text(name)})
	if err != nil {
		return TableDoc{}, fmt.Errorf("schemaexport: list columns of %s: %w", name, err)
	}
	var cols []ColumnDoc
	for _, h := range colHandles {
		row, err := cat.Columns().Project(h, nil)
		if err != nil {
			return TableDoc{}, fmt.Errorf("schemaexport: project column row of %s: %w", name, err)
		}
		cols = append(cols, ColumnDoc{Name: row["column_name"].S, DataType: row["data_type"].S})
	}

	names, err := cat.GetIndexNames(name)
	if err != nil {
		return TableDoc{}, fmt.Errorf("schemaexport: list indices of %s: %w", name, err)
	}
	var indices []IndexDoc
	for _, indexName := range names {
		idxHandles, err := cat.Indices().Select(value.Row{"table_name": value.Text(name), "index_name": value.Text(indexName)})
		if err != nil {
			return TableDoc{}, fmt.Errorf("schemaexport: list index rows of %s.%s: %w", name, indexName, err)
		}
		doc := IndexDoc{Name: indexName}
		type seqCol struct {
			seq    int64
			column string
		}
		var seqCols []seqCol
		for _, h := range idxHandles {
			row, err := cat.Indices().Project(h, nil)
			if err != nil {
				return TableDoc{}, fmt.Errorf("schemaexport: project index row of %s.%s: %w", name, indexName, err)
			}
			doc.Type = row["index_type"].S
			doc.IsUnique = row["is_unique"].B
			seqCols = append(seqCols, seqCol{seq: row["seq_in_index"].N, column: row["column_name"].S})
		}
		sort.Slice(seqCols, func(i, j int) bool { return seqCols[i].seq < seqCols[j].seq })
		for _, sc := range seqCols {
			doc.Columns = append(doc.Columns, sc.column)
		}
		indices = append(indices, doc)
	}

	return TableDoc{Name: name, Columns: cols, Indices: indices}, nil
}

// Render marshals doc to TOML text.
func Render(doc *Document) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("schemaexport: encode: %w", err)
	}
	return buf.String(), nil
}
