package deployment

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

const (
	sshPort        = "22"
	connectTimeout = 30 * time.Second
)

// Target is a parsed deploy URL of the form user@host:path
type Target struct {
	User string
	Host string
	Dir  string
}

// ParseDeployURL splits user@host:path into its parts
func ParseDeployURL(deployURL string) (Target, error) {
	if deployURL == "" {
		return Target{}, fmt.Errorf("deploy URL is empty")
	}

	user, hostPath, ok := strings.Cut(deployURL, "@")
	if !ok || user == "" {
		return Target{}, fmt.Errorf("invalid deploy URL %q: expected user@host:path", deployURL)
	}

	host, dir, ok := strings.Cut(hostPath, ":")
	if !ok || host == "" || dir == "" {
		return Target{}, fmt.Errorf("invalid deploy URL %q: expected user@host:path", deployURL)
	}

	return Target{User: user, Host: host, Dir: dir}, nil
}

// SSHDeployer publishes report files to a remote directory over SCP
type SSHDeployer struct {
	keyPath   string
	deployURL string
	client    *ssh.Client
}

// NewSSHDeployer creates a deployer for deployURL authenticating with the private key at keyPath
func NewSSHDeployer(deployURL, keyPath string) *SSHDeployer {
	return &SSHDeployer{
		keyPath:   keyPath,
		deployURL: deployURL,
	}
}

// Connect establishes the SSH connection if it is not open yet
func (d *SSHDeployer) Connect() error {
	if d.client != nil {
		return nil
	}

	target, err := ParseDeployURL(d.deployURL)
	if err != nil {
		return err
	}

	keyData, err := os.ReadFile(d.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", d.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User:            target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         connectTimeout,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(target.Host, sshPort), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", target.Host, err)
	}
	d.client = client

	log.Info().
		Str("host", target.Host).
		Str("user", target.User).
		Msg("Connected to deploy host")

	return nil
}

// Disconnect closes the SSH connection
func (d *SSHDeployer) Disconnect() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// DeployFile uploads the local file as filename in the deploy directory
func (d *SSHDeployer) DeployFile(localPath, filename string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read local file %s: %w", localPath, err)
	}
	return d.DeployBytes(data, filename)
}

// DeployBytes uploads data as filename in the deploy directory
func (d *SSHDeployer) DeployBytes(data []byte, filename string) error {
	if filename == "" || strings.ContainsAny(filename, "/\\\n") {
		return fmt.Errorf("invalid remote filename %q", filename)
	}

	target, err := ParseDeployURL(d.deployURL)
	if err != nil {
		return err
	}
	if err := d.Connect(); err != nil {
		return err
	}

	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	remoteFilePath := path.Join(target.Dir, filename)
	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start(fmt.Sprintf("scp -t %s", remoteFilePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	if err := writeSCP(stdin, filename, data); err != nil {
		stdin.Close()
		return err
	}
	stdin.Close()

	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("remote_path", remoteFilePath).
		Int("size", len(data)).
		Msg("Deployed file via SCP")

	return nil
}

// writeSCP streams one file in the SCP sink protocol: header, content, zero byte
func writeSCP(w io.Writer, filename string, data []byte) error {
	if _, err := fmt.Fprintf(w, "C0644 %d %s\n", len(data), filename); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}
	return nil
}
