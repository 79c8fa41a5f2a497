// Package pkguid hides ID generation behind two small interfaces: StringID
// (UUIDv7, used for event and correlation IDs) and NumberID (Snowflake, used
// for in-memory record IDs).
package pkguid
