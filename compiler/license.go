package compiler

import (
	"bytes"
	"strings"
)

const spdxMarker = "SPDX-License-Identifier: "

// License returns the license named by the SPDX marker in text, or "".
// GPL-2.0 variants are reported as "GPL", the name the kernel understands.
func License(text []byte) string {
	i := bytes.Index(text, []byte(spdxMarker))
	if i < 0 {
		return ""
	}

	i += len(spdxMarker)

	e := bytes.IndexByte(text[i:], '\n')
	if e < 0 {
		return ""
	}

	lic := string(text[i : i+e])

	if strings.HasPrefix(lic, "GPL-2.0") {
		return "GPL"
	}

	return lic
}
