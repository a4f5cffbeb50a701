package service

import (
	"context"
	"fmt"

	"github.com/elemstage/elemstage/store/sqlstore"
)

// LoadSQL stages elements into a relational table, creating it when missing.
func (s *Service) LoadSQL(ctx context.Context, req LoadSQLRequest) (*LoadSQLResponse, error) {
	if len(req.Elements) == 0 {
		return nil, fmt.Errorf("no elements to load")
	}
	store, err := s.openSQL(ctx, req.Driver, req.DSN, req.Table)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	count, err := store.Load(ctx, req.Elements)
	if err != nil {
		return nil, err
	}
	s.logf("loaded %d elements into %s", count, store.Table())
	return &LoadSQLResponse{Count: count, Table: store.Table()}, nil
}

// QuerySQL reads staged elements back from a relational table.
func (s *Service) QuerySQL(ctx context.Context, req QuerySQLRequest) (*QuerySQLResponse, error) {
	store, err := s.openSQL(ctx, req.Driver, req.DSN, req.Table)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	rows, err := store.Query(ctx, sqlstore.QueryRequest{
		Category: req.Category,
		Filename: req.Filename,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &QuerySQLResponse{Rows: rows}, nil
}

func (s *Service) openSQL(ctx context.Context, driver, dsn, table string) (*sqlstore.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	var opts []sqlstore.Option
	if table != "" {
		opts = append(opts, sqlstore.WithTable(table))
	}
	return sqlstore.New(ctx, driver, dsn, opts...)
}
