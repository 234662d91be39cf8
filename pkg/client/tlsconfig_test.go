package client

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapcompare/pkg/model"
	"github.com/mpapenbr/lapcompare/testsupport/basedata"
)

func writePEM(t *testing.T, file, blockType string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	assert.NoError(t, os.WriteFile(file, data, 0o600))
}

// writeKeyPair creates a self signed client cert and returns its DER bytes.
func writeKeyPair(t *testing.T, certFile, keyFile string, serial int64) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	assert.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: "lcmp-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	assert.NoError(t, err)
	keyDer, err := x509.MarshalECPrivateKey(key)
	assert.NoError(t, err)
	writePEM(t, certFile, "CERTIFICATE", der)
	writePEM(t, keyFile, "EC PRIVATE KEY", keyDer)
	return der
}

func TestNewTLSConfig_caFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(basedata.SampleComparison())
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	writePEM(t, caFile, "CERTIFICATE", srv.Certificate().Raw)

	cfg, err := NewTLSConfig(context.Background(), TLSFiles{CAFile: caFile})
	assert.NoError(t, err)
	assert.Nil(t, cfg.GetClientCertificate)

	c := New(srv.URL, WithTLSConfig(cfg))
	res, err := c.Compare(context.Background(), &model.CompareRequest{LapIDs: []int{12, 7}})
	assert.NoError(t, err)
	assert.Len(t, res.Laps, 2)

	// without the CA the server is not trusted
	_, err = New(srv.URL).Compare(context.Background(),
		&model.CompareRequest{LapIDs: []int{12, 7}})
	assert.Error(t, err)
}

func TestNewTLSConfig_errors(t *testing.T) {
	dir := t.TempDir()
	noPEM := filepath.Join(dir, "empty.pem")
	assert.NoError(t, os.WriteFile(noPEM, []byte("nothing here"), 0o600))

	_, err := NewTLSConfig(context.Background(), TLSFiles{CAFile: filepath.Join(dir, "missing")})
	assert.Error(t, err)

	_, err = NewTLSConfig(context.Background(), TLSFiles{CAFile: noPEM})
	assert.ErrorIs(t, err, ErrNoCACerts)

	_, err = NewTLSConfig(context.Background(), TLSFiles{CertFile: noPEM, KeyFile: noPEM})
	assert.Error(t, err)
}

func TestNewTLSConfig_reloadsClientCert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	certFile := filepath.Join(dir, "client.crt")
	keyFile := filepath.Join(dir, "client.key")
	first := writeKeyPair(t, certFile, keyFile, 1)

	cfg, err := NewTLSConfig(ctx, TLSFiles{CertFile: certFile, KeyFile: keyFile})
	assert.NoError(t, err)
	cert, err := cfg.GetClientCertificate(nil)
	assert.NoError(t, err)
	assert.Equal(t, first, cert.Certificate[0])

	second := writeKeyPair(t, certFile, keyFile, 2)
	assert.Eventually(t, func() bool {
		cert, err := cfg.GetClientCertificate(nil)
		return err == nil && string(cert.Certificate[0]) == string(second)
	}, 5*time.Second, 50*time.Millisecond)
}

func TestTLSFiles_IsEmpty(t *testing.T) {
	assert.True(t, TLSFiles{}.IsEmpty())
	assert.False(t, TLSFiles{CAFile: "ca.pem"}.IsEmpty())
}
