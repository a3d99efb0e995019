package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/redhatinsights/hostdiag/internal/policy"
)

// manifestFileName is the name of the manifest file at the archive root.
const manifestFileName = "manifest.json"

// Manifest describes one report run. It is written to the root of the
// archive so that automated tooling can discover what was collected
// without unpacking the whole report.
type Manifest struct {
	// RunID uniquely identifies the report run.
	RunID string `json:"run_id"`
	// Version is the version of the tool that produced the archive.
	Version    string    `json:"version"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Host holds the facts the run collected from.
	Host policy.Facts `json:"host"`
	// Plugins records per-plugin collection results.
	Plugins []PluginResult `json:"plugins"`
}

// NewManifest starts a manifest for a report run beginning now.
func NewManifest(version string, host policy.Facts) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Version:   version,
		StartedAt: time.Now().UTC(),
		Host:      host,
	}
}

// Write finishes the manifest and writes it to the report directory.
func (m *Manifest) Write(directory string) error {
	m.FinishedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(directory, manifestFileName), data, 0600)
}

// Schema returns the JSON schema of the manifest document, for consumers
// that validate archives before automated analysis.
func Schema() ([]byte, error) {
	schema := jsonschema.Reflect(&Manifest{})
	return json.MarshalIndent(schema, "", "    ")
}
