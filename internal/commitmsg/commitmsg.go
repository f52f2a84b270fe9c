// Package commitmsg derives human-readable commit messages from
// configuration changes.
package commitmsg

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

// trackedChange names one comparison between the current and previous
// configuration. Menu and products compare by full structural equality.
type trackedChange struct {
	label string
	equal func(current, previous domain.Configuration) bool
}

var trackedChanges = []trackedChange{
	{"site title", func(c, p domain.Configuration) bool {
		ct, _ := c.StringAt("site", "title")
		pt, _ := p.StringAt("site", "title")
		return ct == pt
	}},
	{"theme colors", func(c, p domain.Configuration) bool {
		cc, _ := c.StringAt("theme", "primaryColor")
		pc, _ := p.StringAt("theme", "primaryColor")
		return cc == pc
	}},
	{"navigation", func(c, p domain.Configuration) bool {
		cn, _ := c.Section("navigation")
		pn, _ := p.Section("navigation")
		return reflect.DeepEqual(cn["menu"], pn["menu"])
	}},
	{"products", func(c, p domain.Configuration) bool {
		return reflect.DeepEqual(c["products"], p["products"])
	}},
}

// Compose builds the commit message for a publish. With no previous
// configuration it falls back to a generic update message. The same inputs
// always produce the same text; the date stamp comes from now, not the clock.
func Compose(current, previous domain.Configuration, now time.Time) string {
	stamp := now.UTC().Format("2006-01-02")

	if previous == nil {
		return fmt.Sprintf("feat: Update site configuration (%s)", stamp)
	}

	var changed []string
	for _, tracked := range trackedChanges {
		if !tracked.equal(current, previous) {
			changed = append(changed, tracked.label)
		}
	}
	if len(changed) > 0 {
		return fmt.Sprintf("feat: Update %s (%s)", strings.Join(changed, ", "), stamp)
	}
	return fmt.Sprintf("chore: Minor configuration updates (%s)", stamp)
}
