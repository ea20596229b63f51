package config

import (
	"fmt"
	"strconv"
)

const (
	rateLimitRPSVar   = "RATE_LIMIT_RPS"
	rateLimitBurstVar = "RATE_LIMIT_BURST"
	trustProxyVar     = "TRUST_PROXY_HEADERS"
)

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
	GetTrustProxyHeaders() bool
}

// Security controls the per-client limiter in front of the credential endpoints.
type Security struct {
	PerSecond float64
	Burst     int
	// TrustProxy keys clients on X-Forwarded-For. Enable it only behind a
	// proxy that overwrites the header.
	TrustProxy bool
}

var _ SecurityConfig = Security{}

func LoadSecurity() (Security, error) {
	rps, err := strconv.ParseFloat(GetEnv(rateLimitRPSVar, "5"), 64)
	if err != nil {
		return Security{}, fmt.Errorf("%s: %w", rateLimitRPSVar, err)
	}
	burst, err := strconv.Atoi(GetEnv(rateLimitBurstVar, "10"))
	if err != nil {
		return Security{}, fmt.Errorf("%s: %w", rateLimitBurstVar, err)
	}
	trustProxy, err := strconv.ParseBool(GetEnv(trustProxyVar, "false"))
	if err != nil {
		return Security{}, fmt.Errorf("%s: %w", trustProxyVar, err)
	}
	return Security{PerSecond: rps, Burst: burst, TrustProxy: trustProxy}, nil
}

func (s Security) GetEnableRateLimiting() bool {
	return s.PerSecond > 0 && s.Burst > 0
}

func (s Security) GetRateLimitPerSecond() float64 {
	return s.PerSecond
}

func (s Security) GetRateLimitBurst() int {
	return s.Burst
}

func (s Security) GetTrustProxyHeaders() bool {
	return s.TrustProxy
}
