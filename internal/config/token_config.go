package config

import "time"

type TokenConfig interface {
	GetRefreshTokenLength() int
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetAssertionTTL() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return 30 * time.Minute
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

// GetAssertionTTL bounds how long a primary-login assertion can be exchanged.
func (Token) GetAssertionTTL() time.Duration {
	return 5 * time.Minute
}
