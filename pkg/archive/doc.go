// Package archive reads identifiers out of an exported Twitter archive's
// data files and persists fetch results next to it. Result files double
// as checkpoints: reruns load them and skip everything already settled.
package archive
