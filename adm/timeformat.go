package adm

import "fmt"

// FormatTime renders ns as "hh:mm:ss.SSSSS" (5-digit fractional seconds,
// hundred-thousandths), per spec §6 "Time format". Values of 24 hours or
// more still render, growing the hh field past two digits.
func FormatTime(ns uint64) string {
	const tick = 10000 // ns per wire unit (1/100000 s)
	units := ns / tick  // total hundred-thousandths of a second
	frac := units % 100000
	totalSeconds := units / 100000
	ss := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	mm := totalMinutes % 60
	hh := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d.%05d", hh, mm, ss, frac)
}

// ParseTime parses "hh:mm:ss.SSSSS" into nanoseconds, per spec §6:
// t_ns = ((hh*60 + mm)*60 + ss) * 100000 + SSSSS, then * 10000.
func ParseTime(s string) (uint64, error) {
	var hh, mm, ss, frac uint64
	n, err := fmt.Sscanf(s, "%d:%d:%d.%d", &hh, &mm, &ss, &frac)
	if err != nil || n != 4 {
		return 0, fmt.Errorf("adm: invalid time %q", s)
	}
	units := ((hh*60+mm)*60 + ss) * 100000 + frac
	return units * 10000, nil
}
