// Command cratepress catalogs vinyl record photos from Google Drive and
// publishes them for sale on Instagram.
package main
