package transport

import (
	"crypto/tls"
)

// cipherSuites is the explicit cipher list the original's _create_ssl_context
// configures, translated to Go's named cipher-suite IDs (TLS 1.3 suites
// aren't listed here since Go selects those automatically and they can't
// be individually disabled the way TLS 1.2 suites can).
var cipherSuites = []uint16{
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
}

// CheckCertificateValid attempts to load a cert/key pair, mirroring
// check_ssl_certificate_valid: rather than inspecting the certificate's
// fields directly, it loads the pair the same way NewServerTLSConfig
// does and reports whether that succeeded.
func CheckCertificateValid(certPath, keyPath string) bool {
	_, err := tls.LoadX509KeyPair(certPath, keyPath)
	return err == nil
}

// NewServerTLSConfig builds the TLS server config used for the HTTPS
// listener: TLS 1.2 minimum, the explicit cipher list above, and no
// client certificate authentication, matching _create_ssl_context.
func NewServerTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		CipherSuites: cipherSuites,
		ClientAuth:   tls.NoClientCert,
	}, nil
}
