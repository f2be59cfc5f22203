package service

import "strings"

// imagenRule maps lowercase name fragments to a bundled image file.
// Rules are evaluated top to bottom, first match wins — the order is load
// bearing because later fragments ("airpods max") overlap earlier ones.
// Fragment spellings mirror the catalog rows ("airpos" without the d is how
// several rows are actually written).
type imagenRule struct {
	fragmentos []string
	imagen     string
}

var imagenRules = []imagenRule{
	// Audio
	{[]string{"airpos pro 2", "oem"}, "airpods-pro-2-oem.png"},
	{[]string{"airpos pro 1", "oem"}, "airpods-pro-1-oem.png"},
	{[]string{"airpos 2g", "oem"}, "airpods-2-oem.png"},
	{[]string{"airpos 3g", "oem"}, "airpods-3-oem.png"},
	{[]string{"airpos 4", "oem"}, "airpods-4-oem.png"},
	{[]string{"airpods max", "clon"}, "airpods-max-clon.png"},
	{[]string{"airpods max", "oem"}, "airpods-max-oem.png"},
	{[]string{"earpods jack"}, "earpods-jack-oem.png"},
	{[]string{"earpods lightning"}, "earpods-lightning-oem.png"},
	// Relojes
	{[]string{"apple watch by nike"}, "apple-watch-s9-clon.png"},
	{[]string{"apple watch ultra"}, "apple-watch-ultra-clon.png"},
	{[]string{"hello watch 3"}, "hello-watch-3.png"},
	{[]string{"hello watch s8"}, "haylou-s30.png"},
	// Baterías
	{[]string{"batería magsafe"}, "bateria-magsafe.png"},
	{[]string{"batería simer"}, "moreka-magsafe.png"},
	// Cargadores
	{[]string{"cargador magsafe"}, "cargador-magsafe.png"},
	{[]string{"cargador c a l"}, "cargador-C-L.png"},
	{[]string{"cubo de carga c"}, "cubo-de-carga-C.png"},
	{[]string{"cubo de carga usb"}, "cubo-de-carga-USB.png"},
	{[]string{"cable lightning"}, "cable-c-lighting.png"},
}

// ResolverImagenPaquete returns the image filename for a wholesale package
// name, or nil when no rule matches (the mixed starter package has no image).
func ResolverImagenPaquete(nombre string) *string {
	lower := strings.ToLower(nombre)
	for _, rule := range imagenRules {
		match := true
		for _, frag := range rule.fragmentos {
			if !strings.Contains(lower, frag) {
				match = false
				break
			}
		}
		if match {
			img := rule.imagen
			return &img
		}
	}
	return nil
}
