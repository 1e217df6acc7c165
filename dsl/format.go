package dsl

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Formats checked by String().Format. Any other format name is kept in the
// document as an annotation and not enforced.
const (
	FormatDateTime = "date-time"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatEmail    = "email"
	FormatURI      = "uri"
	FormatHostname = "hostname"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
	FormatUUID     = "uuid"
	FormatRegex    = "regex"
	FormatDuration = "duration"
)

var formatCheckers = map[string]func(string) bool{
	FormatDateTime: func(s string) bool {
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	},
	FormatDate: func(s string) bool {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	},
	FormatTime: func(s string) bool {
		_, err := time.Parse("15:04:05.999999999Z07:00", s)
		return err == nil
	},
	FormatEmail: func(s string) bool {
		a, err := mail.ParseAddress(s)
		return err == nil && a.Address == s
	},
	FormatURI: func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && u.IsAbs()
	},
	FormatHostname: isHostname,
	FormatIPv4: func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
	},
	FormatIPv6: func(s string) bool {
		return net.ParseIP(s) != nil && strings.Contains(s, ":")
	},
	FormatUUID: func(s string) bool {
		// uuid.Parse also accepts the urn and braced forms.
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	},
	FormatRegex: func(s string) bool {
		_, err := regexp.Compile(s)
		return err == nil
	},
	FormatDuration: isDuration,
}

// KnownFormat reports whether name is enforced during validation.
func KnownFormat(name string) bool {
	_, ok := formatCheckers[name]
	return ok
}

var hostnameLabel = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

func isHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !hostnameLabel.MatchString(label) {
			return false
		}
	}
	return true
}

var durationRe = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)

// isDuration accepts ISO 8601 durations such as P1D, PT1H30M or P1Y2M.
func isDuration(s string) bool {
	if s == "P" || strings.HasSuffix(s, "T") || !durationRe.MatchString(s) {
		return false
	}
	return true
}
