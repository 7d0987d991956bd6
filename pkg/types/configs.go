package types

import "time"

type DBConfig struct {
	URI             string
	DBNamePrefix    string
	Timeout         int
	MaxPoolSize     uint64
	IdleConnTimeout int
}

type BridgeConfig struct {
	Endpoint   string
	AppID      string
	SubStudyID string
	Timeout    time.Duration
}

type SessionConfig struct {
	CookieName      string
	CookieSecret    []byte
	Secure          bool
	MaxIdle         time.Duration // client state is dropped after this much inactivity
	RevalidateAfter time.Duration // age after which the backend is asked about the token again
}

type AnalyticsConfig struct {
	CollectURL string // empty: events are only logged
	TrackingID string
}
