package utils

import (
	"testing"
	"time"
)

func TestNowSLST(t *testing.T) {
	now := NowSLST()
	if now.Location().String() != "Asia/Colombo" && now.Location().String() != "SLST" {
		t.Errorf("NowSLST() location = %s, want Asia/Colombo or SLST", now.Location().String())
	}
	_, offset := now.Zone()
	if offset != 5*60*60+30*60 {
		t.Errorf("NowSLST() offset = %d, want 19800", offset)
	}
}

func TestFormatDateTime(t *testing.T) {
	utc := time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC)
	if got, want := FormatDateTime(utc), "2026-02-19 01:30:00 SLST"; got != want {
		t.Errorf("FormatDateTime = %q, want %q", got, want)
	}
}
