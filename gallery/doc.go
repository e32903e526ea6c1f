// Package gallery lists the images in a storage folder and serves them.
//
// GET /list?prefix=images/ answers {"success":true,"images":[...]} with the
// basenames of the image files directly under the prefix, filtered by an
// extension allow-list and sorted so that "img2" comes before "img10". On
// failure it answers a non-2xx status with {"success":false,"message":...}.
//
// A Cache in front of the Lister absorbs repeated polling, and a Watcher
// clears it when a local image folder changes.
package gallery
