package spoolman

// FilamentPayload is the body of a filament create or update request.
// Nil pointers are omitted so an update only touches fields that were set.
type FilamentPayload struct {
	Name         string   `json:"name"`
	Material     string   `json:"material,omitempty"`
	VendorID     int      `json:"vendor_id,omitempty"`
	Diameter     *float64 `json:"diameter,omitempty"`
	Density      *float64 `json:"density,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	SpoolWeight  *float64 `json:"spool_weight,omitempty"`
	ExtruderTemp *int     `json:"settings_extruder_temp,omitempty"`
	BedTemp      *int     `json:"settings_bed_temp,omitempty"`
	ColorHex     string   `json:"color_hex,omitempty"`
}
