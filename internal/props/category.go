package props

import "strings"

// Category names, in display order.
const (
	CategoryBuild     = "Build"
	CategoryProduct   = "Product"
	CategoryVendor    = "Vendor"
	CategoryBoot      = "Boot"
	CategoryRuntime   = "Runtime"
	CategoryRadio     = "Radio"
	CategoryNetwork   = "Network"
	CategoryUSB       = "USB"
	CategoryBluetooth = "Bluetooth"
	CategoryAudio     = "Audio"
	CategoryGraphics  = "Graphics"
	CategoryNFC       = "NFC"
	CategoryStorage   = "Storage"
	CategoryServices  = "Services"
	CategorySecurity  = "Security"
	CategoryDebug     = "Debug/Logging"
	CategorySystem    = "System (ro.*)"
	CategoryOther     = "Other"
)

// CategoryOrder is the presentation order of all category names.
var CategoryOrder = []string{
	CategoryBuild, CategoryProduct, CategoryVendor, CategoryBoot,
	CategoryRuntime, CategoryRadio, CategoryNetwork, CategoryUSB,
	CategoryBluetooth, CategoryAudio, CategoryGraphics, CategoryNFC,
	CategoryStorage, CategoryServices, CategorySecurity, CategoryDebug,
	CategorySystem, CategoryOther,
}

type rule struct {
	name     string
	prefixes []string
	contains []string
}

func (r rule) matches(key string) bool {
	for _, p := range r.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	for _, s := range r.contains {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// rules is evaluated in order; the first match wins. Keys are lowercased
// before matching.
var rules = []rule{
	{name: CategoryBuild, prefixes: []string{"ro.build.", "ro.bootimage.build.", "ro.system.build.", "ro.odm.build."}, contains: []string{".build.version"}},
	{name: CategoryProduct, prefixes: []string{"ro.product."}},
	{name: CategoryVendor, prefixes: []string{"ro.vendor.", "persist.vendor."}, contains: []string{".vendor."}},
	{name: CategoryBoot, prefixes: []string{"ro.boot.", "ro.bootloader", "sys.boot"}},
	{name: CategoryRuntime, prefixes: []string{"dalvik.", "ro.dalvik.", "pm.dexopt."}, contains: []string{"zygote"}},
	{name: CategoryRadio, prefixes: []string{"gsm.", "ril.", "ro.telephony.", "persist.radio.", "telephony."}, contains: []string{"radio"}},
	{name: CategoryNetwork, prefixes: []string{"net.", "wifi.", "dhcp.", "wlan."}, contains: []string{"network", "tether"}},
	{name: CategoryUSB, contains: []string{"usb"}},
	{name: CategoryBluetooth, prefixes: []string{"bt."}, contains: []string{"bluetooth"}},
	{name: CategoryAudio, contains: []string{"audio", "sound", "volume"}},
	{name: CategoryGraphics, prefixes: []string{"sf.", "ro.sf.", "ro.opengles."}, contains: []string{"gralloc", "hwui", "egl", "vulkan", "graphics", "display"}},
	{name: CategoryNFC, contains: []string{"nfc"}},
	{name: CategoryStorage, prefixes: []string{"ro.crypto."}, contains: []string{"storage", "sdcard", "emulated", "fuse"}},
	{name: CategoryServices, prefixes: []string{"init.svc.", "service.", "ctl."}},
	{name: CategorySecurity, contains: []string{"selinux", "secure", "verity", "verifiedboot", "keyguard"}},
	{name: CategoryDebug, prefixes: []string{"debug.", "log.", "persist.log."}, contains: []string{"debuggable", "logging"}},
	{name: CategorySystem, prefixes: []string{"ro."}},
}

// Category maps a property key to its display category. First matching rule
// wins; keys matching no rule fall into Other. The function is pure and
// total: the same key always yields the same category.
func Category(key string) string {
	k := strings.ToLower(key)
	for _, r := range rules {
		if r.matches(k) {
			return r.name
		}
	}
	return CategoryOther
}

// Categorize buckets a property map by Category. Keys within a bucket are
// left unsorted; callers sort for display.
func Categorize(m Map) map[string][]string {
	buckets := make(map[string][]string)
	for k := range m {
		cat := Category(k)
		buckets[cat] = append(buckets[cat], k)
	}
	return buckets
}
