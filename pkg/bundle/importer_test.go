package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

type fakeService struct {
	vendors   []spoolman.Vendor
	filaments []spoolman.Filament
	fetchErr  error
	createErr map[string]error
	updateErr error

	createdVendors []string
	created        []spoolman.FilamentPayload
	updated        map[int]spoolman.FilamentPayload
}

func (f *fakeService) Vendors(context.Context) ([]spoolman.Vendor, error) {
	return f.vendors, f.fetchErr
}

func (f *fakeService) Filaments(context.Context) ([]spoolman.Filament, error) {
	return f.filaments, nil
}

func (f *fakeService) CreateVendor(_ context.Context, name string) (*spoolman.Vendor, error) {
	f.createdVendors = append(f.createdVendors, name)
	return &spoolman.Vendor{ID: 100 + len(f.createdVendors), Name: name}, nil
}

func (f *fakeService) CreateFilament(_ context.Context, p spoolman.FilamentPayload) (*spoolman.Filament, error) {
	if err := f.createErr[p.Name]; err != nil {
		return nil, err
	}
	f.created = append(f.created, p)
	return &spoolman.Filament{ID: 200 + len(f.created), Name: p.Name}, nil
}

func (f *fakeService) UpdateFilament(_ context.Context, id int, p spoolman.FilamentPayload) (*spoolman.Filament, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated == nil {
		f.updated = map[int]spoolman.FilamentPayload{}
	}
	f.updated[id] = p
	return &spoolman.Filament{ID: id, Name: p.Name}, nil
}

func parse(t *testing.T, s string) *Bundle {
	t.Helper()
	b, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return b
}

func TestImporterRun(t *testing.T) {
	svc := &fakeService{
		vendors:   []spoolman.Vendor{{ID: 1, Name: "Extrudr"}},
		filaments: []spoolman.Filament{{ID: 9, Name: "bare asa"}},
	}

	result, err := NewImporter(svc, parse(t, sampleBundle)).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Err())

	assert.Equal(t, []string{"Fiberlogy"}, svc.createdVendors)

	require.Len(t, svc.created, 1)
	created := svc.created[0]
	assert.Equal(t, "My PETG", created.Name)
	assert.Equal(t, 101, created.VendorID)

	require.Contains(t, svc.updated, 9)
	updated := svc.updated[9]
	assert.Equal(t, 1, updated.VendorID, "vendor matched case-insensitively")
	assert.Nil(t, updated.Density, "updates leave unset fields alone")

	created2, updated2, failed := result.Counts()
	assert.Equal(t, [3]int{1, 1, 0}, [3]int{created2, updated2, failed})
	assert.Len(t, result.Skipped, 5)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, "Import complete: 1 created, 1 updated, 5 skipped, 0 failed", result.Summary())
	assert.Contains(t, result.Lines(), "Created: My PETG (new vendor Fiberlogy)")
}

func TestImporterDefaultsOnCreate(t *testing.T) {
	svc := &fakeService{}
	b := parse(t, "[filament:Plain]\nfilament_vendor = Acme\nfilament_type = PLA\n")

	_, err := NewImporter(svc, b).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, svc.created, 1)
	require.NotNil(t, svc.created[0].Diameter)
	assert.Equal(t, 1.75, *svc.created[0].Diameter)
	assert.Equal(t, 1.24, *svc.created[0].Density)
}

func TestImporterReusesCreatedVendor(t *testing.T) {
	svc := &fakeService{}
	b := parse(t, `[filament:A]
filament_vendor = Acme
filament_type = PLA

[filament:B]
filament_vendor = ACME
filament_type = PETG
`)

	_, err := NewImporter(svc, b).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, svc.createdVendors)
	require.Len(t, svc.created, 2)
	assert.Equal(t, svc.created[0].VendorID, svc.created[1].VendorID)
}

func TestImporterItemFailureContinues(t *testing.T) {
	svc := &fakeService{createErr: map[string]error{
		"A": errors.NewAPIError(spoolman.ServiceName, 422, "invalid"),
	}}
	b := parse(t, `[filament:A]
filament_vendor = Acme
filament_type = PLA

[filament:B]
filament_vendor = Acme
filament_type = PLA
`)

	result, err := NewImporter(svc, b).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "B", svc.created[0].Name)

	_, _, failed := result.Counts()
	assert.Equal(t, 1, failed)
	var syncErr *errors.SyncError
	require.ErrorAs(t, result.Err(), &syncErr)
	assert.Equal(t, []string{"A"}, syncErr.Items)
}

func TestImporterRecreatesMissingFilament(t *testing.T) {
	svc := &fakeService{
		vendors:   []spoolman.Vendor{{ID: 1, Name: "Acme"}},
		filaments: []spoolman.Filament{{ID: 9, Name: "Plain"}},
		updateErr: errors.WrapResource("update", "filament", "Plain",
			errors.NewAPIError(spoolman.ServiceName, 404, "not found")),
	}
	b := parse(t, "[filament:Plain]\nfilament_vendor = Acme\nfilament_type = PLA\n")

	result, err := NewImporter(svc, b).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Err())

	require.Len(t, svc.created, 1)
	assert.Equal(t, "Plain", svc.created[0].Name)
	assert.Equal(t, 1.75, *svc.created[0].Diameter)
	assert.Equal(t, ActionCreated, result.Outcomes[0].Action)
}

func TestImporterUpdateFailure(t *testing.T) {
	svc := &fakeService{
		vendors:   []spoolman.Vendor{{ID: 1, Name: "Acme"}},
		filaments: []spoolman.Filament{{ID: 9, Name: "Plain"}},
		updateErr: errors.NewAPIError(spoolman.ServiceName, 422, "invalid"),
	}
	b := parse(t, "[filament:Plain]\nfilament_vendor = Acme\nfilament_type = PLA\n")

	result, err := NewImporter(svc, b).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, svc.created)
	assert.Equal(t, ActionFailed, result.Outcomes[0].Action)
}

func TestImporterFetchErrorIsFatal(t *testing.T) {
	svc := &fakeService{fetchErr: errors.NewAPIError(spoolman.ServiceName, 500, "down")}
	_, err := NewImporter(svc, parse(t, sampleBundle)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Empty(t, svc.createdVendors)
}

func TestImporterDryRun(t *testing.T) {
	svc := &fakeService{}
	result, err := NewImporter(svc, parse(t, sampleBundle), WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, svc.createdVendors)
	assert.Empty(t, svc.created)
	assert.Contains(t, result.Lines(), "Would create: My PETG (new vendor Fiberlogy)")
	assert.Equal(t, "Dry run complete: 2 created, 0 updated, 5 skipped, 0 failed", result.Summary())
}

func TestImporterAgainstHTTP(t *testing.T) {
	var posted []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/vendor":
			_, _ = io.WriteString(w, `[{"id": 3, "name": "Extrudr"}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/filament":
			_, _ = io.WriteString(w, `[]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/filament":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			posted = append(posted, body)
			_, _ = fmt.Fprintf(w, `{"id": %d, "name": %q}`, len(posted), body["name"])
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := spoolman.NewClient(server.URL + "/api/v1")
	require.NoError(t, err)

	b := parse(t, "[filament:Bare ASA]\nfilament_vendor = extrudr\nfilament_type = ASA\nfilament_colour = #112233\n")
	result, err := NewImporter(client, b).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Err())

	require.Len(t, posted, 1)
	assert.Equal(t, "Bare ASA", posted[0]["name"])
	assert.Equal(t, float64(3), posted[0]["vendor_id"])
	assert.Equal(t, "112233", posted[0]["color_hex"])
	assert.Equal(t, 1.75, posted[0]["diameter"])
}
