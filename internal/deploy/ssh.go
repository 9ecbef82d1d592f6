package deploy

import (
	"context"
	"fmt"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

// SSHRunner runs commands with public key authentication
type SSHRunner struct {
	cfg    config.DeployConfig
	logger *logger.Logger
}

// NewSSHRunner creates a runner for cfg
func NewSSHRunner(cfg config.DeployConfig, log *logger.Logger) *SSHRunner {
	return &SSHRunner{cfg: cfg, logger: log}
}

// clientConfig reads the private key and host key policy.
// Errors here are configuration problems and are not retried.
func (r *SSHRunner) clientConfig() (*ssh.ClientConfig, error) {
	if r.cfg.KeyPath == "" {
		return nil, retry.Permanent(fmt.Errorf("%w: DEPLOY_KEY_PATH is empty", ErrNotConfigured))
	}
	key, err := os.ReadFile(r.cfg.KeyPath)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("read private key: %w", err))
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("parse private key: %w", err))
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if r.cfg.KnownHosts != "" {
		hostKey, err = knownhosts.New(r.cfg.KnownHosts)
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("load known hosts: %w", err))
		}
	} else {
		r.logger.Warn("DEPLOY_KNOWN_HOSTS not set, accepting any host key")
	}

	return &ssh.ClientConfig{
		User:            r.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKey,
		Timeout:         r.cfg.Timeout,
	}, nil
}

// Run dials the host, runs command in a fresh session and returns stdout
func (r *SSHRunner) Run(ctx context.Context, command string) (string, error) {
	clientCfg, err := r.clientConfig()
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(r.cfg.Host, r.cfg.Port)
	dialer := net.Dialer{Timeout: r.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("ssh handshake: %w", err)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	stop := context.AfterFunc(ctx, func() { client.Close() })
	defer stop()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	out, err := session.Output(command)
	if err != nil {
		return "", fmt.Errorf("run command: %w", err)
	}
	return string(out), nil
}
