package rules

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/errors"
)

// AnyBundle is the bundle rule key applied to every bundle without an
// exact rule.
const AnyBundle = "*"

// BundleUpdate describes the new identity of an OSGi bundle. Empty fields
// keep the original value.
type BundleUpdate struct {
	SymbolicName string
	Version      string
	Name         string
	Description  string
}

// parseBundleUpdate reads `newSymbolicName,version,"name","description"`.
func parseBundleUpdate(value string) (BundleUpdate, error) {
	fields := config.SplitValuesKeepEmpty(value)
	if len(fields) == 0 || len(fields) > 4 {
		return BundleUpdate{}, errors.Newf(errors.ErrConfigInvalid,
			"bundle update needs 1 to 4 fields, got %d", len(fields))
	}
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	u := BundleUpdate{
		SymbolicName: fields[0],
		Version:      fields[1],
		Name:         fields[2],
		Description:  fields[3],
	}
	if u == (BundleUpdate{}) {
		return u, errors.New(errors.ErrConfigInvalid, "bundle update is empty")
	}
	return u, nil
}

// NewSymbolicName returns the updated symbolic name; '*' stands for the
// original name.
func (u BundleUpdate) NewSymbolicName(old string) string {
	if u.SymbolicName == "" {
		return old
	}
	return strings.ReplaceAll(u.SymbolicName, "*", old)
}

// NewName returns the updated Bundle-Name.
func (u BundleUpdate) NewName(old string) string {
	return replaceOrAppend(u.Name, old)
}

// NewDescription returns the updated Bundle-Description.
func (u BundleUpdate) NewDescription(old string) string {
	return replaceOrAppend(u.Description, old)
}

// replaceOrAppend: a leading '+' appends to the original text.
func replaceOrAppend(update, old string) string {
	switch {
	case update == "":
		return old
	case strings.HasPrefix(update, "+"):
		return old + update[1:]
	default:
		return update
	}
}
