package mssql

import (
	"context"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "sqlserver",
			DisplayName: "Microsoft SQL Server",
			Description: "Read key columns from a SQL Server 2019+ or Azure SQL Database table",
			Schemes:     []string{"sqlserver"},
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
