package actions

import (
	"path"
	"strings"

	"github.com/arthur-debert/jrename/pkg/signature"
)

// classRoots are entry prefixes below which resources are laid out by
// package.
var classRoots = []string{"WEB-INF/classes/", "BOOT-INF/classes/"}

// renamePath moves a resource that lives in a renamed package directory.
func renamePath(m *signature.Matcher, p string) (string, bool) {
	for _, root := range classRoots {
		if rest, ok := strings.CutPrefix(p, root); ok {
			renamed, changed := m.RenameResourcePath(rest)
			return root + renamed, changed
		}
	}
	return m.RenameResourcePath(p)
}

// IsSignatureFile reports whether p is a JAR signature file.
func IsSignatureFile(p string) bool {
	dir, base := path.Split(p)
	if dir != "META-INF/" {
		return false
	}
	if strings.HasPrefix(strings.ToUpper(base), "SIG-") {
		return true
	}
	switch strings.ToUpper(path.Ext(base)) {
	case ".SF", ".RSA", ".DSA", ".EC":
		return true
	}
	return false
}

// ServicesDir holds service-loader descriptors.
const ServicesDir = "META-INF/services/"

// IsServiceFile reports whether p is a service-loader descriptor.
func IsServiceFile(p string) bool {
	name, ok := strings.CutPrefix(p, ServicesDir)
	return ok && name != "" && !strings.Contains(name, "/")
}

var textExtensions = map[string]bool{
	".xml": true, ".xmi": true, ".xsd": true, ".wsdl": true, ".tld": true,
	".properties": true, ".txt": true, ".json": true, ".yaml": true, ".yml": true,
	".jsp": true, ".jspx": true, ".jspf": true, ".tag": true, ".tagx": true,
	".html": true, ".htm": true, ".xhtml": true, ".js": true, ".css": true,
	".conf": true, ".inc": true, ".java": true, ".ftl": true, ".vm": true,
}

// IsTextFile reports whether p has a known text extension.
func IsTextFile(p string) bool {
	return textExtensions[strings.ToLower(path.Ext(p))]
}

// IsFeatureDescriptor reports whether p is an Eclipse feature.xml.
func IsFeatureDescriptor(p string) bool {
	return path.Base(p) == "feature.xml"
}

func isClassFile(p string) bool {
	return path.Ext(p) == ".class"
}
