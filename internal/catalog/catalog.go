// Package catalog implements the schema of schemas: _tables, _columns, and
// _indices, built atop relation.DbRelation the same way any user table is,
// plus the named lookups the rest of the execution core needs (get a
// relation by name, get an index by name). Grounded on SQLExec's
// tables/indices members and get_table/get_index/get_index_names in
// original_source/Milestone5/SQLExec.cpp and original_source/Milestone6/btree.cpp.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ninanguyen24/sqlcore/internal/btree"
	"github.com/ninanguyen24/sqlcore/internal/relation"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/heap"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// TablesName, ColumnsName, IndicesName are the fixed catalog relation names
// spec.md §3 reserves; they can never be dropped (SchemaProtected).
const (
	TablesName  = "_tables"
	ColumnsName = "_columns"
	IndicesName = "_indices"
)

// Protected reports whether name is one of the three catalog relations.
func Protected(name string) bool {
	return name == TablesName || name == ColumnsName || name == IndicesName
}

var tablesColumns = schema.ColumnNames{"table_name"}
var tablesAttrs = schema.ColumnAttributes{{DataType: schema.Text}}

var columnsColumns = schema.ColumnNames{"table_name", "column_name", "data_type"}
var columnsAttrs = schema.ColumnAttributes{
	{DataType: schema.Text}, {DataType: schema.Text}, {DataType: schema.Text},
}

var indicesColumns = schema.ColumnNames{
	"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique",
}
var indicesAttrs = schema.ColumnAttributes{
	{DataType: schema.Text}, {DataType: schema.Text}, {DataType: schema.Int},
	{DataType: schema.Text}, {DataType: schema.Text}, {DataType: schema.Boolean},
}

// Catalog owns the three schema relations plus a cache of every opened user
// relation and index, keyed by name. It is constructed once per process and
// threaded explicitly (spec.md §9's "explicit database-context value"
// design note) rather than kept as package globals.
type Catalog struct {
	dataDir  string
	pageSize int

	tables  relation.DbRelation
	columns relation.DbRelation
	indices relation.DbRelation

	relations map[string]relation.DbRelation
	indexes   map[string]relation.DbIndex
}

// Open bootstraps (creating on first use) the three schema relations in
// dataDir and returns a ready Catalog.
func Open(dataDir string, pageSize int) (*Catalog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create data dir %s: %w", dataDir, err)
	}

	c := &Catalog{
		dataDir:   dataDir,
		pageSize:  pageSize,
		relations: make(map[string]relation.DbRelation),
		indexes:   make(map[string]relation.DbIndex),
	}

	c.tables = heap.New(c.pathFor(TablesName), TablesName, tablesColumns, tablesAttrs, pageSize)
	c.columns = heap.New(c.pathFor(ColumnsName), ColumnsName, columnsColumns, columnsAttrs, pageSize)
	c.indices = heap.New(c.pathFor(IndicesName), IndicesName, indicesColumns, indicesAttrs, pageSize)

	for _, r := range []relation.DbRelation{c.tables, c.columns, c.indices} {
		if err := r.CreateIfNotExists(); err != nil {
			return nil, fmt.Errorf("catalog: bootstrap %s: %w", r.GetTableName(), err)
		}
	}

	for _, name := range []string{TablesName, ColumnsName, IndicesName} {
		found, err := c.tables.Select(value.Row{"table_name": value.Text(name)})
		if err != nil {
			return nil, fmt.Errorf("catalog: bootstrap check %s: %w", name, err)
		}
		if len(found) == 0 {
			if _, err := c.tables.Insert(value.Row{"table_name": value.Text(name)}); err != nil {
				return nil, fmt.Errorf("catalog: bootstrap register %s: %w", name, err)
			}
		}
	}

	c.relations[TablesName] = c.tables
	c.relations[ColumnsName] = c.columns
	c.relations[IndicesName] = c.indices
	return c, nil
}

func (c *Catalog) pathFor(name string) string {
	return filepath.Join(c.dataDir, name)
}

// Tables exposes the _tables relation directly (spec.md §4.1:
// "tables.insert(row) / tables.del(handle) / tables.select(where?) /
// tables.project(handle, cols)").
func (c *Catalog) Tables() relation.DbRelation { return c.tables }

// Columns exposes the _columns relation directly.
func (c *Catalog) Columns() relation.DbRelation { return c.columns }

// Indices exposes the _indices relation directly.
func (c *Catalog) Indices() relation.DbRelation { return c.indices }

// GetTable returns a handle to the named relation, constructing it from
// _columns on first access. Fails with UnknownTableError if name is not
// registered in _tables.
func (c *Catalog) GetTable(name string) (relation.DbRelation, error) {
	if r, ok := c.relations[name]; ok {
		return r, nil
	}

	found, err := c.tables.Select(value.Row{"table_name": value.Text(name)})
	if err != nil {
		return nil, fmt.Errorf("catalog: check %s exists: %w", name, err)
	}
	if len(found) == 0 {
		return nil, &UnknownTableError{Name: name}
	}

	colRows, err := c.columns.Select(value.Row{"table_name": value.Text(name)})
	if err != nil {
		return nil, fmt.Errorf("catalog: load columns of %s: %w", name, err)
	}
	cols := make(schema.ColumnNames, len(colRows))
	attrs := make(schema.ColumnAttributes, len(colRows))
	for i, h := range colRows {
		row, err := c.columns.Project(h, nil)
		if err != nil {
			return nil, fmt.Errorf("catalog: project column row of %s: %w", name, err)
		}
		cols[i] = row["column_name"].S
		switch row["data_type"].S {
		case "INT":
			attrs[i] = schema.ColumnAttribute{DataType: schema.Int}
		case "TEXT":
			attrs[i] = schema.ColumnAttribute{DataType: schema.Text}
		default:
			return nil, fmt.Errorf("catalog: %s.%s has unrecognized data_type %q", name, cols[i], row["data_type"].S)
		}
	}

	r := heap.New(c.pathFor(name), name, cols, attrs, c.pageSize)
	if err := r.Open(); err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", name, err)
	}
	c.relations[name] = r
	return r, nil
}

// ForgetTable drops name from the in-memory relation cache; callers call
// this after a relation's physical storage has been dropped.
func (c *Catalog) ForgetTable(name string) {
	delete(c.relations, name)
}

// NewTable constructs (but does not open or create) a relation for a table
// whose _columns rows have just been inserted, and caches it. Used only by
// ddl.CreateTable, which must call Create/CreateIfNotExists on the result
// itself before the relation is usable; GetTable assumes the opposite
// (physical storage already exists) and calls Open.
func (c *Catalog) NewTable(name string, cols schema.ColumnNames, attrs schema.ColumnAttributes) relation.DbRelation {
	r := heap.New(c.pathFor(name), name, cols, attrs, c.pageSize)
	c.relations[name] = r
	return r
}

// indexPath is the on-disk name of an index file (spec.md §6: "Every index
// is stored in a file named <table>-<index>").
func (c *Catalog) indexPath(table, name string) string {
	return filepath.Join(c.dataDir, table+"-"+name)
}

func (c *Catalog) cacheKey(table, name string) string { return table + "." + name }

// GetIndex returns a handle to the named index, constructing it from
// _indices on first access. Fails with UnknownIndexError if no such index
// is registered.
func (c *Catalog) GetIndex(table, name string) (relation.DbIndex, error) {
	key := c.cacheKey(table, name)
	if ix, ok := c.indexes[key]; ok {
		return ix, nil
	}

	rows, err := c.indices.Select(value.Row{"table_name": value.Text(table), "index_name": value.Text(name)})
	if err != nil {
		return nil, fmt.Errorf("catalog: load index %s.%s: %w", table, name, err)
	}
	if len(rows) == 0 {
		return nil, &UnknownIndexError{Table: table, Index: name}
	}

	cols, unique, err := c.indexColumns(rows)
	if err != nil {
		return nil, err
	}

	rel, err := c.GetTable(table)
	if err != nil {
		return nil, err
	}

	ix, err := btree.New(c.indexPath(table, name), rel, table, name, cols, unique, c.pageSize)
	if err != nil {
		return nil, err
	}
	if err := ix.Open(); err != nil {
		return nil, fmt.Errorf("catalog: open index %s.%s: %w", table, name, err)
	}
	c.indexes[key] = ix
	return ix, nil
}

// indexColumns orders handles' rows by seq_in_index and returns the
// resulting key_columns list plus the index's uniqueness flag.
func (c *Catalog) indexColumns(handles schema.Handles) (schema.ColumnNames, bool, error) {
	type entry struct {
		seq    int64
		column string
		unique bool
	}
	entries := make([]entry, 0, len(handles))
	for _, h := range handles {
		row, err := c.indices.Project(h, nil)
		if err != nil {
			return nil, false, err
		}
		entries = append(entries, entry{
			seq:    row["seq_in_index"].N,
			column: row["column_name"].S,
			unique: row["is_unique"].B,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	cols := make(schema.ColumnNames, len(entries))
	unique := true
	for i, e := range entries {
		cols[i] = e.column
		unique = unique && e.unique
	}
	return cols, unique, nil
}

// GetIndexNames returns the distinct index names defined on table, in the
// order first encountered.
func (c *Catalog) GetIndexNames(table string) ([]string, error) {
	rows, err := c.indices.Select(value.Row{"table_name": value.Text(table)})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, h := range rows {
		row, err := c.indices.Project(h, schema.ColumnNames{"index_name"})
		if err != nil {
			return nil, err
		}
		name := row["index_name"].S
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// ForgetIndex drops (table,name) from the in-memory index cache; callers
// call this after an index's physical storage has been dropped.
func (c *Catalog) ForgetIndex(table, name string) {
	delete(c.indexes, c.cacheKey(table, name))
}

// NewIndex constructs (but does not open or create) an index for a table
// whose _indices rows have just been inserted, and caches it. Used only by
// ddl.CreateIndex, which must call Create on the result itself (which
// bulk-loads from the relation and leaves the index open); GetIndex
// assumes the opposite (physical storage already exists) and calls Open.
func (c *Catalog) NewIndex(table, name string, keyColumns schema.ColumnNames, unique bool) (relation.DbIndex, error) {
	rel, err := c.GetTable(table)
	if err != nil {
		return nil, err
	}
	ix, err := btree.New(c.indexPath(table, name), rel, table, name, keyColumns, unique, c.pageSize)
	if err != nil {
		return nil, err
	}
	c.indexes[c.cacheKey(table, name)] = ix
	return ix, nil
}
