package cli

import (
	"fmt"
	"os"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/alert"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/architect"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/store"
)

// buildSession assembles a full session from config: model client, blob
// store, audit log, and alert dispatcher. The returned cleanup closes
// what was opened.
func buildSession(cfg *config.Config, hash string) (*session.Session, func(), error) {
	client := architect.NewClient(architect.Config{
		APIURL:    cfg.Model.APIURL,
		APIKey:    cfg.Model.APIKey(),
		Model:     cfg.Model.Model,
		MaxTokens: cfg.Model.MaxTokens,
		Timeout:   cfg.Model.Timeout(),
	})

	var closers []func()

	st, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		// A locked or unreadable store degrades to in-memory history.
		fmt.Fprintf(os.Stderr, "warning: history persistence disabled: %v\n", err)
		st = nil
	} else {
		closers = append(closers, func() { st.Close() })
	}

	var auditLog *audit.Log
	if cfg.Storage.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.Storage.AuditLogPath)
		if err != nil {
			cleanup(closers)
			return nil, nil, fmt.Errorf("open audit log: %w", err)
		}
		closers = append(closers, func() { auditLog.Close() })
	}

	sess, err := session.New(session.Options{
		Generator:  client,
		Thresholds: cfg.Thresholds,
		SafeModeN:  cfg.SafeMode.IncidentThreshold,
		Cooldown:   cfg.SafeMode.Cooldown(),
		BudgetUSD:  cfg.Budget.MaxCostUSD,
		Store:      st,
		Audit:      auditLog,
		Alerts:     alert.NewDispatcher(cfg.Alerts),
		ConfigHash: hash,
	})
	if err != nil {
		cleanup(closers)
		return nil, nil, err
	}
	closers = append(closers, sess.Close)

	return sess, func() { cleanup(closers) }, nil
}

func cleanup(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
