// Package udi provides parsing and construction of Uniform Data Identifiers.
//
// A UDI is a portable, type-tagged reference to a CMS entity that does not
// depend on local numeric database keys:
//
//	umb://document/0cfa8757f1c1413c94e9f8a27e0b2a9f
//	umb://media
//
// The first form names a single entity (entity type "document" plus a GUID
// with its hyphens stripped). The second names only the type root.
//
// # Parsing
//
// Parse is a best-effort recognizer, not a strict validator. It never panics
// and never returns an error: anything that is not a string starting with
// "umb://" yields nil. Everything after the prefix is split at the last "/",
// so "umb://media/a/b/c" has entity type "media/a/b" and value "c".
//
//	u := udi.Parse("umb://document/0cfa8757f1c1413c94e9f8a27e0b2a9f")
//	if u == nil {
//	    // not a UDI, maybe a legacy numeric key
//	}
//
// Callers that need stricter checks layer them on top with a Registry:
//
//	reg := udi.NewDefaultRegistry()
//	if err := reg.Validate(*u); err != nil {
//	    return err
//	}
//
// # Creating
//
// Create mints a fresh identifier and returns it as a string:
//
//	s := udi.Create("element") // "umb://element/9a0c..."
//
// New returns the same thing as a structured Udi. A Factory with a custom
// Generator can be used where deterministic values are needed.
//
// # Database Integration
//
// NullUdi implements sql.Scanner and driver.Valuer so a UDI can be stored
// in a nullable text column:
//
//	type EntityKey struct {
//	    gorm.Model
//	    Udi udi.NullUdi `gorm:"type:varchar(255);uniqueIndex"`
//	}
package udi
