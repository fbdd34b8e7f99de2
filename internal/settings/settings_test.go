package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testValues = map[string]string{
	"telemetry.devDeviceId":    "6f1c1f43-5a1e-4c38-9d4e-9d0f4a3f7b11",
	"telemetry.macMachineId":   "aa",
	"telemetry.machineId":      "bb",
	"telemetry.sqmId":          "{6F1C1F43-5A1E-4C38-9D4E-9D0F4A3F7B11}",
	"storage.serviceMachineId": "6f1c1f43-5a1e-4c38-9d4e-9d0f4a3f7b11",
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc), "parse %s", path)
	return doc
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func TestBackupAndUpdate_PreservesUnrelatedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	original := `{"foo": "bar", "telemetry.machineId": "old", "count": 12345678901234567890}`
	writeFile(t, path, original, 0644)

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	f := New(path, WithClock(fixedClock(ts)))

	backup, err := f.BackupAndUpdate(testValues)
	require.NoError(t, err)
	assert.Equal(t, path+".bak.20250102_030405", backup)

	// Backup is byte-for-byte the pre-update content
	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, original, string(got))

	doc := readJSON(t, path)
	assert.Equal(t, "bar", doc["foo"])
	for k, v := range testValues {
		assert.Equal(t, v, doc[k], k)
	}

	// Large integers survive the rewrite untouched
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
	assert.Contains(t, string(raw), "12345678901234567890")
}

func TestBackupAndUpdate_KeepsKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, `{
    "zeta": {"nested": [1, 2.50, "<b>"]},
    "telemetry.machineId": "old",
    "alpha": true,
    "middle": null
}`, 0644)

	f := New(path)
	_, err := f.BackupAndUpdate(testValues)
	require.NoError(t, err)

	doc, err := f.load()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"zeta",
		"telemetry.machineId",
		"alpha",
		"middle",
		"storage.serviceMachineId",
		"telemetry.devDeviceId",
		"telemetry.macMachineId",
		"telemetry.sqmId",
	}, doc.keys())

	v, ok := doc.get("telemetry.machineId")
	require.True(t, ok)
	assert.JSONEq(t, `"bb"`, string(v))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `2.50`)
	assert.Contains(t, string(raw), `"<b>"`)
	assert.Contains(t, string(raw), "\n    \"alpha\": true,\n")
}

func TestParseDocument_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"array", `[1,2,3]`},
		{"null", `null`},
		{"string", `"x"`},
		{"empty", ``},
		{"truncated", `{"a": 1`},
		{"trailing data", `{"a": 1} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDocument([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestParseDocument_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	doc, err := parseDocument([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.keys())

	v, _ := doc.get("a")
	assert.Equal(t, "3", string(v))
}

func TestEnsure_MissingFileThenUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "User", "globalStorage", "storage.json")

	f := New(path)
	require.NoError(t, f.Ensure())

	data, err := os.ReadFile(path)
	require.NoError(t, err, "file not created")
	assert.Equal(t, "{}", string(data))

	_, err = f.BackupAndUpdate(testValues)
	require.NoError(t, err)

	doc := readJSON(t, path)
	assert.Len(t, doc, len(testValues))
	for k, v := range testValues {
		assert.Equal(t, v, doc[k], k)
	}
}

func TestEnsure_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, `{"a":1}`, 0644)

	require.NoError(t, New(path).Ensure())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestBackupAndUpdate_InvalidJSONKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, `[1,2,3]`, 0644)

	_, err := New(path).BackupAndUpdate(testValues)
	require.ErrorIs(t, err, ErrInvalidDocument)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(data))
}

func TestBackupAndUpdate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	_, err := New(path).BackupAndUpdate(testValues)
	assert.Error(t, err)
}

func TestCheckAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	f := New(path)

	assert.ErrorIs(t, f.CheckAccess(), ErrNotFound)

	require.NoError(t, f.Ensure())
	assert.NoError(t, f.CheckAccess())
}

func TestCheckAccess_Directory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.Mkdir(path, 0755))

	assert.ErrorIs(t, New(path).CheckAccess(), ErrNoAccess)
}

func TestCheckAccess_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, "{}", 0444)

	assert.ErrorIs(t, New(path).CheckAccess(), ErrNoAccess)
}

func TestBackups_DistinctSecondsOldestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, "{}", 0644)

	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	t2 := t1.Add(time.Second)

	_, err := New(path, WithClock(fixedClock(t2))).BackupAndUpdate(testValues)
	require.NoError(t, err)
	_, err = New(path, WithClock(fixedClock(t1))).BackupAndUpdate(testValues)
	require.NoError(t, err)

	// Unrelated files are ignored
	writeFile(t, path+".bak.garbage", "", 0644)

	backups, err := New(path).Backups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "storage.json.bak.20250601_100000", filepath.Base(backups[0]))
}

func TestBackupAndUpdate_SameSecondOverwritesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	writeFile(t, path, `{"v":1}`, 0644)

	f := New(path, WithClock(fixedClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local))))
	first, err := f.BackupAndUpdate(testValues)
	require.NoError(t, err)
	second, err := f.BackupAndUpdate(testValues)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	backups, err := f.Backups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
