package props

// Overview is a flat summary of well-known device properties. Each field is
// resolved from an ordered fallback list of property keys; missing fields are
// left empty.
type Overview struct {
	Model          string `json:"model,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	AndroidVersion string `json:"android_version,omitempty"`
	SDK            string `json:"sdk,omitempty"`
	SecurityPatch  string `json:"security_patch,omitempty"`
	BuildID        string `json:"build_id,omitempty"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	Serial         string `json:"serial,omitempty"`
	Bootloader     string `json:"bootloader,omitempty"`
	Baseband       string `json:"baseband,omitempty"`
	ROMVersion     string `json:"rom_version,omitempty"`
	Treble         bool   `json:"treble"`
	ADBRoot        bool   `json:"adb_root"`
}

// NewOverview extracts the summary fields from a property map.
func NewOverview(m Map) Overview {
	return Overview{
		Model:          m.lookup("ro.product.model", "ro.product.vendor.model", "ro.product.system.model"),
		Manufacturer:   m.lookup("ro.product.manufacturer", "ro.product.vendor.manufacturer", "ro.product.brand"),
		AndroidVersion: m.lookup("ro.build.version.release", "ro.build.version.release_or_codename"),
		SDK:            m.lookup("ro.build.version.sdk", "ro.system.build.version.sdk"),
		SecurityPatch:  m.lookup("ro.build.version.security_patch", "ro.vendor.build.security_patch"),
		BuildID:        m.lookup("ro.build.display.id", "ro.build.id"),
		Fingerprint:    m.lookup("ro.build.fingerprint", "ro.system.build.fingerprint", "ro.vendor.build.fingerprint", "ro.bootimage.build.fingerprint"),
		Serial:         m.lookup("ro.serialno", "ro.boot.serialno"),
		Bootloader:     m.lookup("ro.bootloader", "ro.boot.bootloader"),
		Baseband:       m.lookup("gsm.version.baseband", "ro.baseband", "ro.boot.baseband"),
		ROMVersion:     m.lookup("ro.modversion", "ro.lineage.version", "ro.lineage.display.version", "ro.cm.version"),
		Treble:         m.lookup("ro.treble.enabled") == "true",
		ADBRoot:        m.lookup("service.adb.root") == "1" || m.lookup("ro.debuggable") == "1",
	}
}
