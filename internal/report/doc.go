// Package report turns a demodulation run into numbers and files: delay
// alignment and error statistics, power spectra, WAV audio and an Octave
// script for offline plotting.
package report
