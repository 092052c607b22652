package scnp

// USB product identifiers of the supported mixers
const (
	IDProductNotepad5    = uint16(0x0030)
	IDProductNotepad8FX  = uint16(0x0031)
	IDProductNotepad12FX = uint16(0x0032)
)

// MaxSources is the number of selectable USB audio sources.
const MaxSources = 4

// DeviceProfile describes one supported mixer model.
type DeviceProfile struct {
	ProductID   uint16
	Name        string
	HasDucker   bool
	SourceDescr string
	Sources     [MaxSources]string
}

var profiles = [...]DeviceProfile{
	{
		ProductID:   IDProductNotepad5,
		Name:        "NOTEPAD-5",
		SourceDescr: "channels 1+2 of 2-channel audio capture device",
		Sources:     [MaxSources]string{"MIC+LINE 1+2", "LINE 2+3", "LINE 4+5", "MASTER L+R"},
	},
	{
		ProductID:   IDProductNotepad8FX,
		Name:        "NOTEPAD-8FX",
		HasDucker:   true,
		SourceDescr: "channels 1+2 of 2-channel audio capture device",
		Sources:     [MaxSources]string{"MIC 1+2", "LINE 3+4", "LINE 5+6", "MASTER L+R"},
	},
	{
		ProductID:   IDProductNotepad12FX,
		Name:        "NOTEPAD-12FX",
		HasDucker:   true,
		SourceDescr: "channels 3+4 of 4-channel audio capture device",
		Sources:     [MaxSources]string{"MIC 3+4", "LINE 5+6", "LINE 7+8", "MASTER L+R"},
	},
}

// Profiles returns a copy of the device catalog.
func Profiles() []DeviceProfile {
	out := make([]DeviceProfile, len(profiles))
	copy(out, profiles[:])
	return out
}

// LookupProfile finds the catalog entry for a product id.
func LookupProfile(productID uint16) (profile *DeviceProfile, ok bool) {
	for i := range profiles {
		if profiles[i].ProductID == productID {
			p := profiles[i]
			return &p, true
		}
	}
	return
}

// NumSources is the number of named audio sources of the profile.
func (p *DeviceProfile) NumSources() int {
	n := 0
	for _, s := range p.Sources {
		if s != "" {
			n++
		}
	}
	return n
}
