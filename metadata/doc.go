// Package metadata parses ECMA-335 metadata images.
//
// An image is either a PE file carrying a CLI header (.winmd, .dll) or a bare
// metadata root starting with the BSJB signature. Parsing reads the stream
// headers, copies the #Strings heap once, and lays out every table of the #~
// stream using the row counts and heap-size flags of that image.
//
// # Parsing
//
//	data, _ := os.ReadFile("Windows.Foundation.winmd")
//	file, err := metadata.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Reading Rows
//
// Rows are zero-based. Column reads are typed by the table schema:
//
//	name, err := file.String(metadata.TableTypeDef, 0, metadata.TypeDefName)
//	scope, err := file.Decode(metadata.TableTypeRef, 3, metadata.TypeRefScope)
//	begin, end, err := file.List(metadata.TableTypeDef, 0, metadata.TypeDefMethodList)
//
// Index and coded index widths (2 or 4 bytes) follow ECMA-335 II.24.2.6: simple
// indexes widen at 2^16 rows, coded indexes at 2^(16-tag bits) rows in any
// member table.
//
// A File is immutable after Parse returns and safe for concurrent use.
package metadata
