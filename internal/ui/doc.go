// Package ui implements the terminal library browser.
//
// The browser is a [bubbletea] program over the user's saved tracks.
// Page-forward and page-backward keys drive the [api.Pager]'s Next and
// Prev; the refresh key re-fetches the current page in place, which is
// how the view redraws after removing a track from the library.
//
// The model owns its Pager exclusively and performs all traversal inside
// sequential commands, satisfying the Pager's single-owner contract.
package ui
