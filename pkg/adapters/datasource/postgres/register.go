package postgres

import (
	"context"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "Read key columns from a PostgreSQL 12+ table",
			Schemes:     []string{"postgres", "postgresql"},
		},
		LoaderFactory: func(ctx context.Context, src *datasource.Source, opts datasource.LoaderOptions) (datasource.DatasetLoader, error) {
			cfg, err := FromSource(src, opts)
			if err != nil {
				return nil, err
			}
			return NewLoader(ctx, cfg, src.Display(), opts)
		},
	})
}
