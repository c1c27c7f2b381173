// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeschedule

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/unfold"
)

// Span is a duration in seconds. Its text form is a plain number of seconds,
// or a number with one of the suffixes s, m, h, d, w.
type Span uint64

var spanUnits = []struct {
	suffix string
	secs   uint64
}{
	{"w", unfold.Week},
	{"d", unfold.Day},
	{"h", 3600},
	{"m", 60},
	{"s", 1},
}

func (s Span) String() string {
	v := uint64(s)
	if v == 0 {
		return "0"
	}
	for _, u := range spanUnits {
		if v%u.secs == 0 {
			return strconv.FormatUint(v/u.secs, 10) + u.suffix
		}
	}
	return strconv.FormatUint(v, 10)
}

func (s Span) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Span) UnmarshalText(text []byte) error {
	str := strings.TrimSpace(string(text))
	mul := uint64(1)
	for _, u := range spanUnits {
		if strings.HasSuffix(str, u.suffix) {
			str, mul = strings.TrimSuffix(str, u.suffix), u.secs
			break
		}
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid span %q", text)
	}
	if mul > 1 && n > ^uint64(0)/mul {
		return errors.Errorf("span %q out of range", text)
	}
	*s = Span(n * mul)
	return nil
}
