// Command worker runs the Temporal worker that executes the studio's
// workflows and activities. Temporal connection settings come from the
// standard TEMPORAL_* environment variables; API credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON and the per-provider LLM key variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/envconfig"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"datastudio/internal/activities"
	"datastudio/internal/config"
	"datastudio/internal/docs"
	"datastudio/internal/llm"
	"datastudio/internal/runs"
	"datastudio/internal/sheets"
	"datastudio/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "Path to studio.toml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	clientOptions, err := envconfig.LoadDefaultClientOptions()
	if err != nil {
		return fmt.Errorf("load temporal client options: %w", err)
	}
	clientOptions.Logger = newZapAdapter(sugar)

	c, err := client.Dial(clientOptions)
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer c.Close()

	ctx := context.Background()
	sheetsClient, err := sheets.NewClient(ctx)
	if err != nil {
		return err
	}
	docsClient, err := docs.NewClient(ctx)
	if err != nil {
		return err
	}
	store, err := runs.Open(cfg.RunsDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflow.DocumentGenerationWorkflow)
	w.RegisterWorkflow(workflow.AgentPipelineWorkflow)

	w.RegisterActivity(activities.NewSheetActivities(sheetsClient))
	w.RegisterActivity(activities.NewDocActivities(docsClient))
	w.RegisterActivity(activities.NewAgentActivities(llm.NewMultiProviderClient()))
	w.RegisterActivity(activities.NewRunActivities(store))

	sugar.Infow("Worker starting", "task_queue", cfg.TaskQueue)
	return w.Run(worker.InterruptCh())
}

// zapAdapter bridges zap to the Temporal SDK logger.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func newZapAdapter(sugar *zap.SugaredLogger) sdklog.Logger {
	// Skip the adapter frame so call sites resolve correctly.
	return &zapAdapter{sugar: sugar.WithOptions(zap.AddCallerSkip(1))}
}

func (z *zapAdapter) Debug(msg string, keyvals ...interface{}) { z.sugar.Debugw(msg, keyvals...) }
func (z *zapAdapter) Info(msg string, keyvals ...interface{})  { z.sugar.Infow(msg, keyvals...) }
func (z *zapAdapter) Warn(msg string, keyvals ...interface{})  { z.sugar.Warnw(msg, keyvals...) }
func (z *zapAdapter) Error(msg string, keyvals ...interface{}) { z.sugar.Errorw(msg, keyvals...) }
