package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/evaluator"
	"github.com/abhisek/lingua/internal/i18n"
	"github.com/abhisek/lingua/internal/lesson"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/logging"
	"github.com/abhisek/lingua/internal/metrics"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/payment"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/speechcache"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tasks"
)

// memorySpeechEntries bounds the in-process speech cache.
const memorySpeechEntries = 64

// runtime holds the services shared by the commands.
type runtime struct {
	cfg     *config.Config
	store   *store.Store
	metrics *metrics.Metrics

	// oracle is nil when no LLM provider is configured.
	oracle *oracle.Oracle

	closers []io.Closer
}

// runtimeOptions controls what openRuntime builds.
type runtimeOptions struct {
	// logToFile sends logs to a file so they do not corrupt the TUI.
	logToFile bool

	// needLLM makes a missing provider an error.
	needLLM bool
}

// openRuntime loads configuration, sets up logging and opens the store
// and the content service.
func openRuntime(cmd *cobra.Command, opts runtimeOptions) (*runtime, error) {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	logFile := cfg.LogFile
	if logFile == "" && opts.logToFile {
		if logFile, err = logging.DefaultFile(); err != nil {
			return nil, err
		}
	}
	logCloser, err := logging.Setup(cfg.LogLevel, logFile)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, metrics: metrics.New(), closers: []io.Closer{logCloser}}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st)

	llmCfg, ok, err := cfg.LLM()
	switch {
	case err != nil:
		rt.Close()
		return nil, err
	case !ok && opts.needLLM:
		rt.Close()
		return nil, errors.New("no LLM provider configured; set LINGUA_LLM_PROVIDER and an API key")
	case !ok:
		logrus.Warn("no LLM provider configured, running on built-in content")
		if !opts.logToFile {
			fmt.Fprintln(os.Stderr, "LLM provider not configured. AI features will be unavailable.")
		}
	default:
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo())
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.oracle = oracle.New(provider, oracle.DefaultConfig())
		logrus.WithFields(logrus.Fields{
			"provider": llmCfg.Provider,
			"model":    provider.ModelID(),
		}).Info("LLM provider ready")
	}
	return rt, nil
}

// Close releases everything in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadAccount returns the account for the configured identity, or nil
// when the learner has not onboarded yet.
func (rt *runtime) loadAccount(ctx context.Context) (*account.Account, error) {
	a, err := rt.store.AccountRepo().Load(ctx, rt.cfg.Identity)
	if errors.Is(err, account.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}

// requireAccount is loadAccount for commands that need a learner.
func (rt *runtime) requireAccount(ctx context.Context) (*account.Account, error) {
	a, err := rt.loadAccount(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("no account for %q; run `lingua onboard` or start the app first", rt.cfg.Identity)
	}
	return a, nil
}

// speaker builds the cached speech path. Redis is used when configured and
// reachable; otherwise audio is cached in memory.
func (rt *runtime) speaker(ctx context.Context) oracle.Speaker {
	if rt.oracle == nil {
		return nil
	}
	var cache oracle.AudioCache = speechcache.NewMemory(memorySpeechEntries)
	if rt.cfg.RedisAddr != "" {
		r, err := speechcache.Dial(ctx, rt.cfg.RedisAddr, rt.cfg.SpeechCacheTTL)
		if err != nil {
			logrus.WithError(err).Warn("redis speech cache unavailable, using memory")
		} else {
			cache = r
			rt.closers = append(rt.closers, r)
		}
	}
	return oracle.NewCachedSpeaker(rt.oracle, cache)
}

// processor builds the simulated payment processor.
func (rt *runtime) processor() *payment.Processor {
	return payment.NewProcessor(
		payment.WithDelay(rt.cfg.PurchaseDelay),
		payment.WithPurchaseRecorder(rt.store.EventRepo()),
		payment.WithMetrics(rt.metrics),
	)
}

// machine builds the lesson engine on top of the content service. Without
// an oracle every task comes from the fallback set and free text is graded
// locally.
func (rt *runtime) machine() *lesson.Machine {
	var gen tasks.Generator
	var grader evaluator.Grader
	if rt.oracle != nil {
		gen, grader = rt.oracle, rt.oracle
	}
	seq := tasks.NewSequencer(gen, tasks.WithMetrics(rt.metrics))
	return lesson.NewMachine(seq, evaluator.New(grader, rt.metrics),
		lesson.WithRecorder(rt.store.EventRepo()),
		lesson.WithMetrics(rt.metrics),
	)
}

// translator is nil without an oracle so signup keeps the English table.
func (rt *runtime) translator() i18n.Translator {
	if rt.oracle == nil {
		return nil
	}
	return rt.oracle
}

// screenDeps assembles everything the TUI needs. acct may be nil.
func (rt *runtime) screenDeps(ctx context.Context, acct *account.Account) screen.Deps {
	deps := screen.Deps{
		Identity:   rt.cfg.Identity,
		Live:       account.NewLive(rt.store.AccountRepo(), acct),
		Lessons:    rt.machine(),
		Payments:   rt.processor(),
		Speaker:    rt.speaker(ctx),
		Translator: rt.translator(),
	}
	if rt.oracle != nil {
		deps.Dictionary = rt.oracle
	}
	return deps
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LINGUA_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
