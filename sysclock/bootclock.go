package sysclock

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"ertgo/errs"
)

const procUptimeFileName = "/proc/uptime"

// Bootclock returns the duration since boot. It reads /proc/uptime
// first (matching original_source's ert_procUptime fixed-point parser,
// since Go has no CLOCK_BOOTTIME constant in the standard library), and
// falls back to unix.Sysinfo's integer Uptime field if /proc is
// unavailable.
func Bootclock() (time.Duration, error) {
	d, err := procUptime(procUptimeFileName)
	if err == nil {
		return d, nil
	}

	var info unix.Sysinfo_t
	if sysErr := unix.Sysinfo(&info); sysErr != nil {
		return 0, errs.Wrap(sysErr, errs.KindIO, "sysclock.Bootclock")
	}
	return time.Duration(info.Uptime) * time.Second, nil
}

// procUptime parses the first field of /proc/uptime, a fixed-point
// decimal number of seconds, into a time.Duration. It is a byte-level
// port of ert_procUptime's digit-by-digit accumulation, which avoids
// strconv.ParseFloat's less predictable rounding for this format.
func procUptime(fileName string) (time.Duration, error) {
	buf, err := os.ReadFile(fileName)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindIO, "sysclock.procUptime")
	}
	if len(buf) == 0 {
		return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "empty uptime file")
	}

	end := -1
	for i, b := range buf {
		if b == ' ' {
			end = i
			break
		}
	}
	if end < 0 {
		return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "malformed uptime file")
	}

	var uptimeNs uint64
	fracDigits := 0
	sawDot := false

	for _, b := range buf[:end] {
		if b == '.' {
			if sawDot {
				return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "multiple decimal points")
			}
			sawDot = true
			continue
		}
		if b < '0' || b > '9' {
			return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "non-digit in uptime field")
		}
		digit := uint64(b - '0')

		value := uptimeNs*10 + digit
		if value/10 != uptimeNs {
			return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "uptime value overflow")
		}
		uptimeNs = value

		if sawDot {
			fracDigits++
		}
	}
	if fracDigits > 9 {
		return 0, errs.New(errs.KindProtocol, "sysclock.procUptime", "too many fractional digits")
	}

	scale := uint64(1000000000)
	for i := 0; i < fracDigits; i++ {
		scale /= 10
	}
	uptimeNs *= scale

	return time.Duration(uptimeNs), nil
}
