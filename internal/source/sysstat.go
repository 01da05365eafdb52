package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Usage holds the ring percentages.
type Usage struct {
	CPU  float64
	RAM  float64
	Disk float64
}

// SysStat samples usage figures from procfs and statfs.
type SysStat struct {
	// Proc is the procfs mount, "/proc" by default.
	Proc string
	// Disk is the path whose filesystem is measured.
	Disk string
	// Interval separates the two CPU samples.
	Interval time.Duration
}

// NewSysStat measures the filesystem holding the home directory.
func NewSysStat() *SysStat {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return &SysStat{Proc: "/proc", Disk: home, Interval: 100 * time.Millisecond}
}

// Sample returns the current usage. CPU load is measured over Interval.
func (s *SysStat) Sample(ctx context.Context) (Usage, error) {
	var u Usage
	cpu, err := s.cpu(ctx)
	if err != nil {
		return u, err
	}
	u.CPU = cpu

	f, err := os.Open(filepath.Join(s.Proc, "meminfo"))
	if err != nil {
		return u, err
	}
	u.RAM, err = MemPercent(f)
	f.Close()
	if err != nil {
		return u, err
	}

	u.Disk, err = DiskPercent(s.Disk)
	return u, err
}

func (s *SysStat) cpu(ctx context.Context) (float64, error) {
	read := func() (CPUTimes, error) {
		f, err := os.Open(filepath.Join(s.Proc, "stat"))
		if err != nil {
			return CPUTimes{}, err
		}
		defer f.Close()
		return ParseCPU(f)
	}
	a, err := read()
	if err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(s.Interval):
	}
	b, err := read()
	if err != nil {
		return 0, err
	}
	return CPUPercent(a, b), nil
}

// CPUTimes is the aggregate line of /proc/stat.
type CPUTimes struct {
	Idle  uint64
	Total uint64
}

// ParseCPU reads the aggregate "cpu" line of /proc/stat. Idle includes
// iowait.
func ParseCPU(r io.Reader) (CPUTimes, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		var t CPUTimes
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return CPUTimes{}, fmt.Errorf("stat field %d: %w", i+1, err)
			}
			// guest and guest_nice are already counted in user and nice.
			if i < 8 {
				t.Total += v
			}
			if i == 3 || i == 4 {
				t.Idle += v
			}
		}
		return t, nil
	}
	if err := sc.Err(); err != nil {
		return CPUTimes{}, err
	}
	return CPUTimes{}, fmt.Errorf("stat: no cpu line")
}

// CPUPercent is the busy share between two samples.
func CPUPercent(a, b CPUTimes) float64 {
	total := float64(b.Total) - float64(a.Total)
	if total <= 0 {
		return 0
	}
	idle := float64(b.Idle) - float64(a.Idle)
	return clampPct((total - idle) / total * 100)
}

// MemPercent reads /proc/meminfo and returns the used share of MemTotal,
// where used is MemTotal - MemAvailable.
func MemPercent(r io.Reader) (float64, error) {
	var total, avail float64
	var haveAvail bool
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = v
		case "MemAvailable:":
			avail, haveAvail = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if total <= 0 || !haveAvail {
		return 0, fmt.Errorf("meminfo: missing MemTotal or MemAvailable")
	}
	return clampPct((total - avail) / total * 100), nil
}

// DiskPercent is the used share of the filesystem holding path, counting
// only blocks available to unprivileged users.
func DiskPercent(path string) (float64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	used := float64(st.Blocks - st.Bfree)
	denom := used + float64(st.Bavail)
	if denom == 0 {
		return 0, nil
	}
	return clampPct(used / denom * 100), nil
}

func clampPct(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
