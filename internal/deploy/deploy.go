// Package deploy starts the trading script on a remote host over SSH.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

// ErrNotConfigured is returned when the deploy target is incomplete
var ErrNotConfigured = errors.New("deployment target not configured")

// Runner executes one command on the remote host and returns its stdout
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// SSHDeployer launches the configured script detached from the session
type SSHDeployer struct {
	cfg    config.DeployConfig
	runner Runner
	policy retry.Policy
	now    func() time.Time
	logger *logger.Logger
}

// Option configures an SSHDeployer
type Option func(*SSHDeployer)

// WithRunner replaces the SSH runner
func WithRunner(r Runner) Option {
	return func(d *SSHDeployer) {
		d.runner = r
	}
}

// WithPolicy replaces the connection retry policy
func WithPolicy(p retry.Policy) Option {
	return func(d *SSHDeployer) {
		d.policy = p
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(d *SSHDeployer) {
		d.now = now
	}
}

// NewSSHDeployer creates a deployer for cfg
func NewSSHDeployer(cfg config.DeployConfig, log *logger.Logger, opts ...Option) *SSHDeployer {
	d := &SSHDeployer{
		cfg:    cfg,
		policy: retry.New(2, 2*time.Second),
		now:    time.Now,
		logger: log.WithField("component", "deploy"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.runner == nil {
		d.runner = NewSSHRunner(cfg, d.logger)
	}
	return d
}

// Command returns the shell line that starts script in the background and prints its PID
func Command(script string) string {
	return fmt.Sprintf("nohup python3 %s > output.log 2>&1 & echo $!", shellQuote(script))
}

// Deploy runs the script and reports its PID
func (d *SSHDeployer) Deploy(ctx context.Context) (contracts.Deployment, error) {
	if d.cfg.Host == "" || d.cfg.Script == "" {
		return contracts.Deployment{}, ErrNotConfigured
	}

	log := d.logger.WithField("host", d.cfg.Host)
	log.Info("connecting to deploy host")

	var out string
	err := d.policy.Do(ctx, func(ctx context.Context) error {
		o, err := d.runner.Run(ctx, Command(d.cfg.Script))
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		log.WithError(err).Error("deployment failed")
		return contracts.Deployment{}, err
	}

	pid := strings.TrimSpace(out)
	if pid == "" {
		return contracts.Deployment{}, fmt.Errorf("remote shell returned no PID")
	}

	log.WithField("pid", pid).Info("script started")
	return contracts.Deployment{PID: pid, Host: d.cfg.Host, StartedAt: d.now()}, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
