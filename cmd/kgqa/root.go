package main

import (
	"context"

	"github.com/spf13/cobra"

	"kgqa/internal/util"
	"kgqa/pkg/loader"
	"kgqa/pkg/loader/s3"
	"kgqa/pkg/store/neo4j"
)

var rootCmd = &cobra.Command{
	Use:   "kgqa",
	Short: "Knowledge-graph QA dataset pipeline",
	Long: `kgqa ingests ontology and threat-intelligence exports into a graph
database, runs bounded traversal queries over the result, and generates
difficulty-bucketed question/answer datasets from the observed paths.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagURI      string
	flagUsername string
	flagPassword string
	flagDatabase string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagURI, "uri", "", "Neo4j bolt URI (default $NEO4J_URI or bolt://localhost:7687)")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Neo4j username (default $NEO4J_USERNAME or neo4j)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Neo4j password (default $NEO4J_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "", "Neo4j database name (default $NEO4J_DATABASE)")
}

// storeConfig resolves the connection settings: flag first, then
// environment, then default.
func storeConfig() neo4j.Config {
	return neo4j.Config{
		URI:      firstOf(flagURI, util.GetEnvString("NEO4J_URI", "bolt://localhost:7687")),
		Username: firstOf(flagUsername, util.GetEnvString("NEO4J_USERNAME", "neo4j")),
		Password: firstOf(flagPassword, util.GetEnv("NEO4J_PASSWORD")),
		Database: firstOf(flagDatabase, util.GetEnv("NEO4J_DATABASE")),
	}
}

// openStore connects to the configured store. Connectivity failures
// surface here and abort the command.
func openStore(ctx context.Context) (*neo4j.Neo4jStore, error) {
	return neo4j.Connect(ctx, storeConfig())
}

// sourceReader picks the reader matching the source path scheme.
func sourceReader(ctx context.Context, path string) (loader.SourceReader, error) {
	if loader.IsS3Path(path) {
		return s3.NewS3Reader(ctx)
	}
	return loader.FileReader{}, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
