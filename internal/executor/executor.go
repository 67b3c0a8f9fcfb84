// Package executor dispatches a parsed statement to the catalog/DDL/DML
// layers and returns a result.QueryResult. Grounded on SQLExec::execute's
// kind-tag dispatch and SQLExec::show_tables/show_columns/show_index in
// original_source/Milestone5/SQLExec.cpp, reworked per spec.md §9's design
// note as an explicit *DBContext value rather than process-wide globals.
package executor

import (
	"fmt"
	"time"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/catalog"
	"github.com/ninanguyen24/sqlcore/internal/config"
	"github.com/ninanguyen24/sqlcore/internal/ddl"
	"github.com/ninanguyen24/sqlcore/internal/dml"
	"github.com/ninanguyen24/sqlcore/internal/logging"
	"github.com/ninanguyen24/sqlcore/internal/result"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// UnsupportedStatementError is returned when Execute receives a
// ast.Statement kind it does not dispatch on.
type UnsupportedStatementError struct{ Detail string }

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("executor: unsupported statement: %s", e.Detail)
}

// DBContext bundles the catalog and logger a running process needs,
// constructed once and threaded explicitly through every Execute call
// instead of living in package-level globals (spec.md §9).
type DBContext struct {
	Catalog *catalog.Catalog
	Logger  *logging.Logger
}

// Open bootstraps a DBContext against cfg: the catalog's three schema
// relations and a logger writing to cfg.LogFile.
func Open(cfg config.Config) (*DBContext, error) {
	cat, err := catalog.Open(cfg.DataDir, cfg.PageSize)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return &DBContext{Catalog: cat, Logger: log}, nil
}

// Execute dispatches stmt to the appropriate DDL/DML/catalog handler,
// logging one record per call with the statement's kind, duration, row
// count, and error.
func (db *DBContext) Execute(stmt ast.Statement) (*result.QueryResult, error) {
	start := time.Now()
	res, err := db.dispatch(stmt)
	rows := 0
	if res != nil {
		rows = res.Count()
	}
	if db.Logger != nil {
		db.Logger.Statement(kindOf(stmt), time.Since(start), rows, err)
	}
	return res, err
}

func (db *DBContext) dispatch(stmt ast.Statement) (*result.QueryResult, error) {
	switch s := stmt.(type) {
	case *ast.CreateStatement:
		switch s.Kind {
		case ast.Table:
			return ddl.CreateTable(db.Catalog, s)
		case ast.Index:
			return ddl.CreateIndex(db.Catalog, s)
		default:
			return nil, &UnsupportedStatementError{Detail: "CREATE of unknown object kind"}
		}
	case *ast.DropStatement:
		switch s.Kind {
		case ast.Table:
			return ddl.DropTable(db.Catalog, s.Table)
		case ast.Index:
			return ddl.DropIndex(db.Catalog, s.IndexTable, s.IndexName)
		default:
			return nil, &UnsupportedStatementError{Detail: "DROP of unknown object kind"}
		}
	case *ast.ShowStatement:
		return db.show(s)
	case *ast.InsertStatement:
		return dml.Insert(db.Catalog, s)
	case *ast.DeleteStatement:
		return dml.Delete(db.Catalog, s)
	case *ast.SelectStatement:
		return dml.Select(db.Catalog, s)
	default:
		return nil, &UnsupportedStatementError{Detail: fmt.Sprintf("%T", stmt)}
	}
}

func kindOf(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.CreateStatement:
		return "CREATE"
	case *ast.DropStatement:
		return "DROP"
	case *ast.ShowStatement:
		return "SHOW"
	case *ast.InsertStatement:
		return "INSERT"
	case *ast.DeleteStatement:
		return "DELETE"
	case *ast.SelectStatement:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// show implements SHOW TABLES, SHOW COLUMNS FROM t, and SHOW INDEX FROM t.
// SHOW TABLES excludes the three schema relations themselves, matching the
// source's "handles->size()-3" catalog-exclusion behavior.
func (db *DBContext) show(stmt *ast.ShowStatement) (*result.QueryResult, error) {
	switch stmt.Kind {
	case ast.Tables:
		handles, err := db.Catalog.Tables().Select(nil)
		if err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
		rows := make([]value.Row, 0, len(handles))
		for _, h := range handles {
			row, err := db.Catalog.Tables().Project(h, nil)
			if err != nil {
				return nil, fmt.Errorf("StorageError: %w", err)
			}
			if catalog.Protected(row["table_name"].S) {
				continue
			}
			rows = append(rows, row)
		}
		cols := schema.ColumnNames{"table_name"}
		return result.Rowset(cols, rows, result.RowsAffectedMessage("returned", len(rows), "")), nil

	case ast.Columns:
		handles, err := db.Catalog.Columns().Select(value.Row{"table_name": value.Text(stmt.Table)})
		if err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
		cols := schema.ColumnNames{"table_name", "column_name", "data_type"}
		rows := make([]value.Row, 0, len(handles))
		for _, h := range handles {
			row, err := db.Catalog.Columns().Project(h, cols)
			if err != nil {
				return nil, fmt.Errorf("StorageError: %w", err)
			}
			rows = append(rows, row)
		}
		return result.Rowset(cols, rows, result.RowsAffectedMessage("returned", len(rows), "")), nil

	case ast.Index:
		handles, err := db.Catalog.Indices().Select(value.Row{"table_name": value.Text(stmt.Table)})
		if err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
		cols := schema.ColumnNames{"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique"}
		rows := make([]value.Row, 0, len(handles))
		for _, h := range handles {
			row, err := db.Catalog.Indices().Project(h, cols)
			if err != nil {
				return nil, fmt.Errorf("StorageError: %w", err)
			}
			rows = append(rows, row)
		}
		return result.Rowset(cols, rows, result.RowsAffectedMessage("returned", len(rows), "")), nil

	default:
		return nil, &UnsupportedStatementError{Detail: "SHOW of unknown kind"}
	}
}
