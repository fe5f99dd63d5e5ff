// Package session keeps carving workspaces alive between tool calls.
//
// A Workspace holds three grids: the source image, its mask and the current
// result. Carve narrows the result a few columns at a time, always against the
// original mask, and Reset restores the result from the source. Callers only
// ever receive copies, so a grid handed out by Snapshot stays valid while
// further carves run.
//
// A Store owns the open workspaces and hands out random identifiers.
package session
