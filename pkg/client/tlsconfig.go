package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/lapcompare/log"
)

var ErrNoCACerts = errors.New("no certificates found in CA file")

type TLSFiles struct {
	CAFile   string // PEM bundle used to verify the API server
	CertFile string // client certificate
	KeyFile  string // client key
}

// IsEmpty reports whether no file is configured at all.
func (f TLSFiles) IsEmpty() bool {
	return f.CAFile == "" && f.CertFile == "" && f.KeyFile == ""
}

type certs struct {
	ctx   context.Context
	files TLSFiles
	log   *log.Logger
	cert  *tls.Certificate
	mu    sync.RWMutex
}

// NewTLSConfig creates the client TLS config for files. A configured client
// certificate is reloaded whenever its files change until ctx is done.
func NewTLSConfig(ctx context.Context, files TLSFiles) (*tls.Config, error) {
	c := &certs{
		ctx:   ctx,
		files: files,
		log:   log.GetFromContext(ctx).Named("client.certs"),
	}
	ret := &tls.Config{MinVersion: tls.VersionTLS12}
	if files.CAFile != "" {
		c.log.Info("Loading ca cert", log.String("file", files.CAFile))
		caCert, err := os.ReadFile(files.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if ok := pool.AppendCertsFromPEM(caCert); !ok {
			return nil, ErrNoCACerts
		}
		ret.RootCAs = pool
	}
	if files.CertFile != "" || files.KeyFile != "" {
		if err := c.loadCert(); err != nil {
			return nil, err
		}
		ret.GetClientCertificate = func(*tls.CertificateRequestInfo) (
			*tls.Certificate, error,
		) {
			c.mu.RLock()
			defer c.mu.RUnlock()
			return c.cert, nil
		}
		if err := c.watchAndReloadCerts(); err != nil {
			c.log.Warn("client cert will not be reloaded", log.ErrorField(err))
		}
	}
	return ret, nil
}

func (c *certs) watchAndReloadCerts() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, f := range []string{c.files.CertFile, c.files.KeyFile} {
		if err := watcher.Add(f); err != nil {
			watcher.Close()
			return err
		}
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-c.ctx.Done():
				c.log.Debug("context done, stopping cert reload")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.log.Debug("change detected",
					log.String("file", event.Name), log.Any("event", event))
				if event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Chmod == fsnotify.Chmod {

					c.log.Info("cert file changed, reloading cert",
						log.String("file", event.Name))
					if err := c.loadCert(); err != nil {
						// key and cert may be written one after another
						c.log.Warn("could not reload cert, keeping previous one",
							log.ErrorField(err))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Error("watcher error", log.ErrorField(err))
			}
		}
	}()
	return nil
}

func (c *certs) loadCert() error {
	c.log.Debug("Loading cert",
		log.String("key", c.files.KeyFile),
		log.String("cert", c.files.CertFile))
	cert, err := tls.LoadX509KeyPair(c.files.CertFile, c.files.KeyFile)
	if err != nil {
		return fmt.Errorf("load client key pair: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = &cert
	return nil
}
