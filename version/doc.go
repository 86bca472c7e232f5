// Package version reports build information and gates features on the
// versions of linked dependencies.
//
// Version, git commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/jobreturn/version.Version=1.0.0"
//
// Returner capability checks use Require, or RequirePackage when the module
// path should follow an imported package:
//
//	err := version.Require("go.mongodb.org/mongo-driver/v2", "2.0.0")
//	err = version.RequirePackage(reflect.TypeOf(xmpp.Client{}).PkgPath(), "0.1.0")
package version
