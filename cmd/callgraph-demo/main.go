// Command callgraph-demo wires internal/config, internal/obslog, plan,
// registry, engine and one of the reference stores together end to end,
// the way the teacher's cmd/server loads config, builds its logger, and
// wires its dependencies before serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/smilemakc/callgraph/engine"
	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/internal/config"
	"github.com/smilemakc/callgraph/internal/obslog"
	"github.com/smilemakc/callgraph/plan"
	"github.com/smilemakc/callgraph/planquery"
	"github.com/smilemakc/callgraph/registry"
	"github.com/smilemakc/callgraph/stores/memstore"
	"github.com/smilemakc/callgraph/stores/pgstore"
	"github.com/smilemakc/callgraph/stores/redistore"
)

func main() {
	storeKind := flag.String("store", "mem", "value store backing the registered node: mem, postgres, or redis")
	query := flag.String("query", "", "optional jq filter run over the physical plan's node metadata after execution")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "callgraph-demo: load config: %v\n", err)
		os.Exit(1)
	}

	log := obslog.New(cfg.Logging)
	obslog.SetDefault(log)

	log.Info("callgraph-demo: starting", "store", *storeKind, "scheduler", cfg.Engine.Scheduler)

	store, closeStore, err := openStore(*storeKind, cfg)
	if err != nil {
		log.Error("callgraph-demo: open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	p, sum, err := buildPlan()
	if err != nil {
		log.Error("callgraph-demo: build plan", "error", err)
		os.Exit(1)
	}

	reg := registry.New(p)
	if err := reg.Add(sum, store); err != nil {
		log.Error("callgraph-demo: register node", "error", err)
		os.Exit(1)
	}

	result, err := engine.Run(engine.Options{
		Plan:          p,
		Output:        sum,
		Registry:      reg,
		MaxWorkers:    cfg.Engine.MaxWorkers,
		RetryAttempts: cfg.Engine.RetryAttempts,
		Scheduler:     cfg.Engine.Scheduler,
		Logger:        log,
	})
	if err != nil {
		log.Error("callgraph-demo: run", "error", err)
		os.Exit(1)
	}

	fmt.Printf("result: %v\n", result.Value)

	if *query != "" {
		views := planquery.Project(result.Physical, nil)
		rows, err := planquery.Run(*query, views)
		if err != nil {
			log.Error("callgraph-demo: planquery", "error", err)
			os.Exit(1)
		}
		fmt.Printf("query %q -> %v\n", *query, rows)
	}
}

// buildPlan assembles (2 + 3) * 4 as two chained calls over three literals;
// the final (multiply) node is returned for the caller to register against
// a store.
func buildPlan() (*plan.Plan, plan.NodeRef, error) {
	p := plan.New()

	a, err := p.Lit(2)
	if err != nil {
		return nil, plan.NodeRef{}, err
	}
	b, err := p.Lit(3)
	if err != nil {
		return nil, plan.NodeRef{}, err
	}
	four, err := p.Lit(4)
	if err != nil {
		return nil, plan.NodeRef{}, err
	}

	add, err := p.Call(graph.Func("add", func(args []any, _ map[string]any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	}), plan.Pos(a), plan.Pos(b))
	if err != nil {
		return nil, plan.NodeRef{}, err
	}

	mul, err := p.Call(graph.Func("mul", func(args []any, _ map[string]any) (any, error) {
		return args[0].(int) * args[1].(int), nil
	}), plan.Pos(add), plan.Pos(four))
	if err != nil {
		return nil, plan.NodeRef{}, err
	}

	return p, mul, nil
}

// openStore builds the graph.ValueStore named by kind, plus a cleanup
// function to release any connection it opened.
func openStore(kind string, cfg *config.Config) (graph.ValueStore, func(), error) {
	switch kind {
	case "mem":
		return memstore.New(), func() {}, nil

	case "postgres":
		db, err := pgstore.OpenDB(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pgstore.New(db, "callgraph-demo:result"), func() { db.Close() }, nil

	case "redis":
		client, err := redistore.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redistore.New(client, "callgraph-demo:result"), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("callgraph-demo: unknown -store %q", kind)
	}
}
