package tsv

import (
	"context"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        datasource.FileType,
			DisplayName: "Delimited text file",
			Description: "Tab-separated (or other single-character delimited) file with a header row",
		},
		LoaderFactory: func(ctx context.Context, src *datasource.Source, opts datasource.LoaderOptions) (datasource.DatasetLoader, error) {
			return NewLoader(src, opts)
		},
	})
}
