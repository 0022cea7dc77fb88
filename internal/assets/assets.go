// Package assets embeds the two static files served verbatim at
// /assets/mdmd.css and /assets/mdmd.js. These are the only part of the
// response tree that is genuinely static content rather than generated
// output, so they are the only place //go:embed is used.
package assets

import _ "embed"

//go:embed static/mdmd.css
var CSS []byte

//go:embed static/mdmd.js
var JS []byte
