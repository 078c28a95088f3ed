/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package spi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	// The zone index must resolve on hosts without a system zoneinfo database.
	_ "time/tzdata"
)

// TimeZoneKey is the compact zone identifier packed into short
// timestamp-with-time-zone values. It occupies the low 12 bits.
type TimeZoneKey uint16

const (
	// UTCKey is the key of the UTC zone.
	UTCKey TimeZoneKey = 0
	// MaxTimeZoneKey is the largest key that fits the packed encoding.
	MaxTimeZoneKey TimeZoneKey = 1<<timeZoneKeyBits - 1

	// 固定偏移时区 -14:00 .. +14:00 按分钟占用 [offsetKeyBase, offsetKeyBase+2*maxOffsetMinutes]
	offsetKeyBase    TimeZoneKey = 2048
	maxOffsetMinutes             = 14 * 60
	maxRegionKeys                = int(offsetKeyBase)
)

var (
	zoneKeysByID = func() map[string]TimeZoneKey {
		if len(zoneIDs) > maxRegionKeys {
			panic("spi: region zone index overlaps offset keys")
		}
		m := make(map[string]TimeZoneKey, len(zoneIDs)+len(utcAliases))
		for i, id := range zoneIDs {
			m[strings.ToLower(id)] = TimeZoneKey(i)
		}
		for _, id := range utcAliases {
			m[strings.ToLower(id)] = UTCKey
		}
		return m
	}()

	locationsMu sync.RWMutex
	locations   = make(map[TimeZoneKey]*time.Location)
)

// GetTimeZoneKey looks up a region id case-insensitively, or a fixed offset
// written as +HH:MM, +HHMM, +H:MM or +HH. A zero offset is UTC.
func GetTimeZoneKey(zoneID string) (TimeZoneKey, error) {
	id := strings.TrimSpace(zoneID)
	if key, ok := zoneKeysByID[strings.ToLower(id)]; ok {
		return key, nil
	}
	if minutes, ok := parseOffset(id); ok {
		if minutes == 0 {
			return UTCKey, nil
		}
		return offsetKeyBase + TimeZoneKey(minutes+maxOffsetMinutes), nil
	}
	return 0, fmt.Errorf("%w: unknown zone %q", ErrInvalidTimeZoneKey, zoneID)
}

func parseOffset(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	sign, body := 1, s[1:]
	if s[0] == '-' {
		sign = -1
	}
	hours, mins := body, ""
	if i := strings.IndexByte(body, ':'); i >= 0 {
		hours, mins = body[:i], body[i+1:]
		if len(mins) != 2 {
			return 0, false
		}
	} else if len(body) == 4 {
		hours, mins = body[:2], body[2:]
	}
	if len(hours) == 0 || len(hours) > 2 {
		return 0, false
	}
	h, ok := atoiDigits(hours)
	if !ok {
		return 0, false
	}
	m := 0
	if mins != "" {
		if m, ok = atoiDigits(mins); !ok || m >= 60 {
			return 0, false
		}
	}
	total := h*60 + m
	if total > maxOffsetMinutes {
		return 0, false
	}
	return sign * total, true
}

func atoiDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// MustTimeZoneKey is like GetTimeZoneKey but panics on error.
func MustTimeZoneKey(zoneID string) TimeZoneKey {
	key, err := GetTimeZoneKey(zoneID)
	if err != nil {
		panic(err)
	}
	return key
}

func (k TimeZoneKey) offsetMinutes() (int, bool) {
	if k < offsetKeyBase || k > offsetKeyBase+2*maxOffsetMinutes {
		return 0, false
	}
	return int(k-offsetKeyBase) - maxOffsetMinutes, true
}

// Valid reports whether the key names a zone in the index.
func (k TimeZoneKey) Valid() bool {
	if int(k) < len(zoneIDs) {
		return true
	}
	_, ok := k.offsetMinutes()
	return ok
}

// ID returns the canonical zone id, or "" for an invalid key.
func (k TimeZoneKey) ID() string {
	if int(k) < len(zoneIDs) {
		return zoneIDs[k]
	}
	minutes, ok := k.offsetMinutes()
	if !ok {
		return ""
	}
	sign := '+'
	if minutes < 0 {
		sign, minutes = '-', -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}

func (k TimeZoneKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TimeZoneKey(%d)", uint16(k))
	}
	return k.ID()
}

// Location loads the zone rules for the key. Locations are cached.
func (k TimeZoneKey) Location() (*time.Location, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeZoneKey, uint16(k))
	}
	locationsMu.RLock()
	loc, ok := locations[k]
	locationsMu.RUnlock()
	if ok {
		return loc, nil
	}
	if minutes, ok := k.offsetMinutes(); ok {
		loc = time.FixedZone(k.ID(), minutes*60)
	} else {
		var err error
		if loc, err = time.LoadLocation(zoneIDs[k]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTimeZoneKey, zoneIDs[k], err)
		}
	}
	locationsMu.Lock()
	locations[k] = loc
	locationsMu.Unlock()
	return loc, nil
}

// ZoneIDs returns the region ids in key order followed by the fixed offsets.
func ZoneIDs() []string {
	ids := make([]string, 0, len(zoneIDs)+2*maxOffsetMinutes)
	ids = append(ids, zoneIDs...)
	for k := offsetKeyBase; k <= offsetKeyBase+2*maxOffsetMinutes; k++ {
		if minutes, _ := k.offsetMinutes(); minutes != 0 {
			ids = append(ids, k.ID())
		}
	}
	return ids
}
