// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCibaMaxTimeToLive       = "PT5M"
	DefaultCibaVerificationSubject = "CIBA Verification"
	DefaultCibaVerificationText    = "Please verify your authentication request: %s"
	DefaultCibaMailAttribute       = "mail"
	DefaultCibaSmsAttribute        = "phone"
)

// CibaVerificationProperties control how the end user is asked to confirm
// a backchannel authentication request.
type CibaVerificationProperties struct {
	Mail EmailProperties `yaml:"mail" json:"mail"`
	SMS  SmsProperties   `yaml:"sms" json:"sms"`
}

// CibaProperties holds the OIDC Client-Initiated Backchannel Authentication
// settings consumed by the protocol layer.
type CibaProperties struct {
	// MaxTimeToLiveInSeconds is a hard timeout after which a pending
	// request expires. Accepts ISO-8601 ("PT5M"), bare seconds ("300") or
	// Go durations ("5m").
	MaxTimeToLiveInSeconds string                     `yaml:"maxTimeToLiveInSeconds" json:"maxTimeToLiveInSeconds"`
	Verification           CibaVerificationProperties `yaml:"verification" json:"verification"`
}

// NewCibaProperties returns CIBA properties populated with defaults.
func NewCibaProperties() CibaProperties {
	var p CibaProperties
	p.Defaults()
	return p
}

// Defaults fills zero values.
func (p *CibaProperties) Defaults() {
	if strings.TrimSpace(p.MaxTimeToLiveInSeconds) == "" {
		p.MaxTimeToLiveInSeconds = DefaultCibaMaxTimeToLive
	}
	m := &p.Verification.Mail
	if m.Subject == "" {
		m.Subject = DefaultCibaVerificationSubject
	}
	if m.Text == "" {
		m.Text = DefaultCibaVerificationText
	}
	if m.AttributeName == "" {
		m.AttributeName = DefaultCibaMailAttribute
	}
	if m.Priority == 0 {
		m.Priority = 1
	}
	s := &p.Verification.SMS
	if s.Text == "" {
		s.Text = DefaultCibaVerificationText
	}
	if s.AttributeName == "" {
		s.AttributeName = DefaultCibaSmsAttribute
	}
}

// MaxTimeToLive parses MaxTimeToLiveInSeconds.
func (p CibaProperties) MaxTimeToLive() (time.Duration, error) {
	return ParseDuration(p.MaxTimeToLiveInSeconds)
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDuration accepts an ISO-8601 day/time duration, a bare number of
// seconds, or a Go duration string.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		d, ok := addScaled(0, secs, time.Second)
		if !ok {
			return 0, fmt.Errorf("duration %q overflows", s)
		}
		return d, nil
	}
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "P") {
		m := isoDuration.FindStringSubmatch(upper)
		if m == nil || upper == "P" || strings.HasSuffix(upper, "T") {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
		}
		var d time.Duration
		for i, unit := range []time.Duration{24 * time.Hour, time.Hour, time.Minute} {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.ParseInt(m[i+1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
			}
			var ok bool
			if d, ok = addScaled(d, n, unit); !ok {
				return 0, fmt.Errorf("duration %q overflows", s)
			}
		}
		if m[4] != "" {
			f, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
			}
			ns := f * float64(time.Second)
			if ns >= float64(math.MaxInt64-int64(d)) {
				return 0, fmt.Errorf("duration %q overflows", s)
			}
			d += time.Duration(ns)
		}
		return d, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// addScaled returns d + n*unit for non-negative d and n, or false when the
// result does not fit in a time.Duration.
func addScaled(d time.Duration, n int64, unit time.Duration) (time.Duration, bool) {
	if n > math.MaxInt64/int64(unit) {
		return 0, false
	}
	p := time.Duration(n) * unit
	if p > math.MaxInt64-d {
		return 0, false
	}
	return d + p, true
}
