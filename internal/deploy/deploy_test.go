package deploy

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

type fakeRunner struct {
	outputs  []string
	errs     []error
	commands []string
}

func (f *fakeRunner) Run(_ context.Context, command string) (string, error) {
	i := len(f.commands)
	f.commands = append(f.commands, command)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.outputs) {
		return f.outputs[i], nil
	}
	return "", nil
}

var testCfg = config.DeployConfig{Host: "10.0.0.5", Port: "22", User: "ubuntu", Script: "/home/ubuntu/algo/run.py"}

func newTestDeployer(runner Runner, cfg config.DeployConfig) *SSHDeployer {
	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return NewSSHDeployer(cfg, logger.Nop(),
		WithRunner(runner),
		WithPolicy(retry.Policy{Attempts: 2, Sleep: retry.NoSleep}),
		WithClock(func() time.Time { return started }),
	)
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "nohup python3 '/home/ubuntu/algo/run.py' > output.log 2>&1 & echo $!", Command("/home/ubuntu/algo/run.py"))
	assert.Equal(t, `nohup python3 'it'\''s.py' > output.log 2>&1 & echo $!`, Command("it's.py"))
}

func TestDeploy(t *testing.T) {
	runner := &fakeRunner{outputs: []string{"48213\n"}}
	d, err := newTestDeployer(runner, testCfg).Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "48213", d.PID)
	assert.Equal(t, "10.0.0.5", d.Host)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), d.StartedAt)
	assert.Equal(t, []string{Command(testCfg.Script)}, runner.commands)
}

func TestDeploy_RetriesConnectionFailure(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("connection refused")}, outputs: []string{"", "7"}}
	d, err := newTestDeployer(runner, testCfg).Deploy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", d.PID)
	assert.Len(t, runner.commands, 2)
}

func TestDeploy_Errors(t *testing.T) {
	_, err := newTestDeployer(&fakeRunner{}, config.DeployConfig{}).Deploy(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = newTestDeployer(&fakeRunner{outputs: []string{"  "}}, testCfg).Deploy(context.Background())
	assert.ErrorContains(t, err, "no PID")

	refused := errors.New("connection refused")
	_, err = newTestDeployer(&fakeRunner{errs: []error{refused, refused}}, testCfg).Deploy(context.Background())
	assert.ErrorIs(t, err, refused)
	assert.ErrorIs(t, err, retry.ErrExhausted)
}

func TestSSHRunner_ConfigErrorsArePermanent(t *testing.T) {
	cfg := testCfg
	cfg.KeyPath = filepath.Join(t.TempDir(), "missing.pem")

	runner := NewSSHRunner(cfg, logger.Nop())
	counting := &countingRunner{next: runner}
	d := NewSSHDeployer(cfg, logger.Nop(), WithRunner(counting), WithPolicy(retry.Policy{Attempts: 3, Sleep: retry.NoSleep}))

	_, err := d.Deploy(context.Background())
	assert.ErrorContains(t, err, "read private key")
	assert.Equal(t, 1, counting.calls)
}

type countingRunner struct {
	next  Runner
	calls int
}

func (c *countingRunner) Run(ctx context.Context, command string) (string, error) {
	c.calls++
	return c.next.Run(ctx, command)
}
