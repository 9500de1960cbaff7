// Package main provides the schema seeding CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bigfive/internal/cache"
	"bigfive/internal/repository"
	"bigfive/internal/schema"
	"bigfive/web"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stores struct {
	mongoURI  string
	mongoDB   string
	redisAddr string
	ttl       time.Duration
	timeout   time.Duration
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		st   stores
		file string
		name string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upload a questionnaire schema",
		Long: `Validate a questionnaire schema and store it where the server's
mongo or redis schema source reads it.

Examples:
  seed --mongo-uri mongodb://localhost:27017        # embedded sample into Mongo
  seed --file my.json --name v2 --redis-addr :6379  # file into Redis
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(file)
			if err != nil {
				return err
			}
			ctx, cancel := st.context()
			defer cancel()
			return upload(ctx, cmd.OutOrStdout(), st, name, payload)
		},
	}

	cmd.PersistentFlags().StringVar(&st.mongoURI, "mongo-uri", os.Getenv("MONGO_URI"), "MongoDB URI")
	cmd.PersistentFlags().StringVar(&st.mongoDB, "mongo-db", "bigfive", "MongoDB database")
	cmd.PersistentFlags().StringVar(&st.redisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address")
	cmd.PersistentFlags().DurationVar(&st.timeout, "timeout", 10*time.Second, "Overall timeout")
	cmd.Flags().StringVar(&file, "file", "", "Schema JSON file (embedded sample when empty)")
	cmd.Flags().StringVar(&name, "name", "default", "Schema name (mongo document id / redis key)")
	cmd.Flags().DurationVar(&st.ttl, "ttl", 0, "Redis entry TTL (0 keeps it forever)")

	cmd.AddCommand(listCmd(&st), deleteCmd(&st))
	return cmd
}

func listCmd(st *stores) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schema names stored in MongoDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.context()
			defer cancel()

			repo, disconnect, err := connectMongo(ctx, st)
			if err != nil {
				return err
			}
			defer disconnect()

			names, err := repo.List(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func deleteCmd(st *stores) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a schema from every configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if st.mongoURI == "" && st.redisAddr == "" {
				return errNoStore
			}
			ctx, cancel := st.context()
			defer cancel()

			if st.mongoURI != "" {
				repo, disconnect, err := connectMongo(ctx, st)
				if err != nil {
					return err
				}
				defer disconnect()
				if err := repo.Delete(ctx, args[0]); err != nil {
					return err
				}
			}
			if st.redisAddr != "" {
				c, closeRedis, err := connectRedis(ctx, st)
				if err != nil {
					return err
				}
				defer closeRedis()
				if err := c.Delete(ctx, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

var errNoStore = errors.New("no store configured: pass --mongo-uri and/or --redis-addr")

func (st stores) context() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), st.timeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func readPayload(file string) ([]byte, error) {
	if file == "" {
		return web.Questions, nil
	}
	return os.ReadFile(file)
}

// upload validates payload and writes it unchanged so trait order survives
func upload(ctx context.Context, out io.Writer, st stores, name string, payload []byte) error {
	if st.mongoURI == "" && st.redisAddr == "" {
		return errNoStore
	}

	s, err := schema.Parse(payload)
	if err != nil {
		return err
	}

	if st.mongoURI != "" {
		repo, disconnect, err := connectMongo(ctx, &st)
		if err != nil {
			return err
		}
		defer disconnect()
		if err := repo.Save(ctx, name, payload); err != nil {
			return fmt.Errorf("save to mongo: %w", err)
		}
		fmt.Fprintf(out, "mongo: stored %q\n", name)
	}

	if st.redisAddr != "" {
		c, closeRedis, err := connectRedis(ctx, &st)
		if err != nil {
			return err
		}
		defer closeRedis()
		if err := c.Set(ctx, name, payload); err != nil {
			return fmt.Errorf("save to redis: %w", err)
		}
		fmt.Fprintf(out, "redis: stored %q\n", name)
	}

	fmt.Fprintf(out, "%d traits, %d questions\n", len(s.Traits), s.QuestionCount())
	return nil
}

func connectMongo(ctx context.Context, st *stores) (repository.SchemaRepo, func(), error) {
	if st.mongoURI == "" {
		return nil, nil, errors.New("--mongo-uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(st.mongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return repository.NewSchemaRepo(client.Database(st.mongoDB)), func() {
		client.Disconnect(context.Background())
	}, nil
}

func connectRedis(ctx context.Context, st *stores) (cache.SchemaCache, func(), error) {
	rdb := redis.NewClient(&redis.Options{Addr: st.redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return cache.NewSchemaCache(rdb, st.ttl), func() { rdb.Close() }, nil
}
