package minio

import (
	"net"
	"net/url"
	"strings"
)

// maxObjectSize caps single PutObject uploads. Webhook bodies are far smaller.
const maxObjectSize = 64 << 20

// validateConfig normalizes cfg.Endpoint to host:port. A scheme, when given,
// decides UseSSL; a missing port defaults to 443 with SSL and 9000 without.
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return NewInvalidInputError("config is required")
	}
	switch {
	case strings.TrimSpace(cfg.Endpoint) == "":
		return NewInvalidInputError("endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return NewInvalidInputError("access key and secret key are required")
	}
	if err := validateBucketName(cfg.Bucket); err != nil {
		return err
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return NewInvalidInputError("endpoint is not a valid URL")
		}
		if u.Path != "" && u.Path != "/" {
			return NewInvalidInputError("endpoint must not contain a path")
		}
		cfg.UseSSL = u.Scheme == "https"
		endpoint = u.Host
	}

	if _, _, err := net.SplitHostPort(endpoint); err != nil {
		port := "9000"
		if cfg.UseSSL {
			port = "443"
		}
		endpoint = net.JoinHostPort(endpoint, port)
	}
	cfg.Endpoint = endpoint
	return nil
}

func validateUploadRequest(req *UploadRequest) error {
	if req == nil {
		return NewInvalidInputError("request is required")
	}
	if err := validateBucketName(req.BucketName); err != nil {
		return err
	}
	if err := validateObjectName(req.ObjectName); err != nil {
		return err
	}
	switch {
	case req.Reader == nil:
		return NewInvalidInputError("reader is required")
	case req.Size <= 0:
		return NewInvalidInputError("size must be positive")
	case req.Size > maxObjectSize:
		return NewInvalidInputError("object exceeds 64MiB")
	case req.ContentType == "":
		return NewInvalidInputError("content type is required")
	}
	return nil
}

// validateBucketName applies the S3 naming rules: 3-63 chars of lowercase
// letters, digits, dots and hyphens, starting and ending with a letter or digit.
func validateBucketName(name string) error {
	if len(name) < 3 || len(name) > 63 {
		return NewInvalidInputError("bucket name must be 3-63 characters")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		alnum := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if !alnum && c != '-' && c != '.' {
			return NewInvalidInputError("bucket name may only contain lowercase letters, digits, '.' and '-'")
		}
		if (i == 0 || i == len(name)-1) && !alnum {
			return NewInvalidInputError("bucket name must start and end with a letter or digit")
		}
	}
	if strings.Contains(name, "..") || strings.Contains(name, "--") {
		return NewInvalidInputError("bucket name must not contain repeated separators")
	}
	if net.ParseIP(name) != nil {
		return NewInvalidInputError("bucket name must not be an IP address")
	}
	return nil
}

func validateObjectName(name string) error {
	switch {
	case name == "":
		return NewInvalidInputError("object name is required")
	case len(name) > 1024:
		return NewInvalidInputError("object name exceeds 1024 bytes")
	case strings.Contains(name, `\`):
		return NewInvalidInputError("object name must not contain backslashes")
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/"):
		return NewInvalidInputError("object name must not start or end with '/'")
	}
	return nil
}
