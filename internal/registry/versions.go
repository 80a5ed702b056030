// Package registry holds the static package-version table consulted when
// generated manifests gain dependencies. Lookups of unknown packages are
// explicit errors rather than undefined versions written verbatim into
// package.json.
package registry

import (
	"sort"

	"github.com/conneroisu/plategen/internal/errors"
)

// versions maps npm package name to the version range written into
// generated manifests. Bump deliberately; generated projects pin to these.
var versions = map[string]string{
	"async":                 "^2.6.0",
	"bcrypt-nodejs":         "^0.0.3",
	"body-parser":           "^1.18.2",
	"chai":                  "^4.1.2",
	"compression":           "^1.7.1",
	"connect-mongo":         "^2.0.0",
	"connect-redis":         "^3.3.2",
	"cookie-parser":         "^1.4.3",
	"dotenv":                "^4.0.0",
	"ejs":                   "^2.5.7",
	"express":               "^4.16.2",
	"express-handlebars":    "^3.0.0",
	"express-session":       "^1.15.6",
	"express-validator":     "^4.3.0",
	"jade":                  "^1.11.0",
	"jsonwebtoken":          "^8.1.0",
	"mocha":                 "^4.0.1",
	"mongoose":              "^4.13.6",
	"morgan":                "^1.9.0",
	"mysql":                 "^2.15.0",
	"node-sass-middleware":  "^0.11.0",
	"nodemailer":            "^4.4.0",
	"nodemon":               "^1.12.1",
	"nunjucks":              "^3.0.1",
	"passport":              "^0.4.0",
	"passport-facebook":     "^2.1.1",
	"passport-google-oauth": "^1.0.0",
	"passport-local":        "^1.0.0",
	"passport-twitter":      "^1.0.4",
	"pg":                    "^7.4.0",
	"request":               "^2.83.0",
	"sqlite3":               "^3.1.13",
	"supertest":             "^3.0.0",
}

// Lookup returns the version string for a package name.
func Lookup(name string) (string, error) {
	version, ok := versions[name]
	if !ok {
		return "", errors.ErrUnknownPackage(name)
	}

	return version, nil
}

// Known reports whether a package has a registered version.
func Known(name string) bool {
	_, ok := versions[name]
	return ok
}

// Packages returns all registered package names in sorted order.
func Packages() []string {
	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
