package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSessionRoundTrip(t *testing.T) {
	d := openTestDB(t)

	session := &Session{
		ID:           "11111111-2222-3333-4444-555555555555",
		DeviceSerial: "ABCDEF",
		DeviceModel:  "Pixel_7",
		OutputDir:    "/tmp/dumped",
	}
	if err := d.CreateSession(session); err != nil {
		t.Fatal(err)
	}

	if err := d.RecordDump(&Dump{
		SessionID:  session.ID,
		Label:      "boot_a",
		Node:       "mmcblk0p12",
		SizeBytes:  67108864,
		DestPath:   "/tmp/dumped/boot_a.img",
		Outcome:    "done",
		DurationMS: 4200,
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.RecordDump(&Dump{
		SessionID: session.ID,
		Label:     "bad;name",
		Outcome:   "invalid_name",
		Error:     `unsafe partition label "bad;name"`,
	}); err != nil {
		t.Fatal(err)
	}

	if err := d.FinishSession(session.ID, 1, 0, 1); err != nil {
		t.Fatal(err)
	}

	got, err := d.GetSession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.DeviceModel != "Pixel_7" {
		t.Errorf("DeviceModel = %q", got.DeviceModel)
	}
	if got.Done != 1 || got.Invalid != 1 {
		t.Errorf("counts = %d done %d invalid", got.Done, got.Invalid)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	dumps, err := d.GetSessionDumps(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dumps) != 2 {
		t.Fatalf("got %d dumps, want 2", len(dumps))
	}
	if dumps[0].Label != "boot_a" || dumps[0].SizeBytes != 67108864 {
		t.Errorf("first dump = %+v", dumps[0])
	}
	if dumps[1].Outcome != "invalid_name" || dumps[1].Error == "" {
		t.Errorf("second dump = %+v", dumps[1])
	}
}

func TestGetSessionNotFound(t *testing.T) {
	d := openTestDB(t)
	got, err := d.GetSession("does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestGetRecentSessionsOrder(t *testing.T) {
	d := openTestDB(t)

	for _, id := range []string{"s-one", "s-two", "s-three"} {
		if err := d.CreateSession(&Session{ID: id, OutputDir: "/tmp"}); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := d.GetRecentSessions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}

func TestGetDumpsByLabel(t *testing.T) {
	d := openTestDB(t)

	if err := d.CreateSession(&Session{ID: "s1", OutputDir: "/tmp"}); err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{"boot_a", "boot_b", "boot_a"} {
		if err := d.RecordDump(&Dump{SessionID: "s1", Label: label, Outcome: "done"}); err != nil {
			t.Fatal(err)
		}
	}

	dumps, err := d.GetDumpsByLabel("boot_a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(dumps) != 2 {
		t.Fatalf("got %d dumps for boot_a, want 2", len(dumps))
	}
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	d, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	d.Close()

	// Re-opening must not re-run migrations destructively.
	d, err = New(path)
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
}
