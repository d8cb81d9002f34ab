package report

import (
	"bufio"
	"fmt"
	"io"
)

// Run holds the signals of one modulate/demodulate run.
type Run struct {
	Message  []float64    // m: original message
	Received []complex128 // r: received complex baseband
	Output   []float64    // y: demodulator output
	Delay    int          // output delay relative to the message
}

// WriteOctaveScript writes an Octave/Matlab script that recreates the signals
// of run and plots the time-domain comparison and the audio and RF spectra.
func WriteOctaveScript(w io.Writer, name string, run Run) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	n := len(run.Message)
	p("%% %s : auto-generated file\n", name)
	p("clear all\n")
	p("close all\n")
	p("n=%d;\n", n)
	for i := 0; i < n; i++ {
		p("m(%3d) = %12.4e;\n", i+1, run.Message[i])
		if i < len(run.Received) {
			p("r(%3d) = %12.4e + j*%12.4e;\n", i+1, real(run.Received[i]), imag(run.Received[i]))
		}
		if i < len(run.Output) {
			p("y(%3d) = %12.4e;\n", i+1, run.Output[i])
		}
	}

	// time-domain result
	p("t=0:(n-1);\n")
	p("ydelay = %d; %% measured output delay\n", run.Delay)
	p("figure;\n")
	p("subplot(3,1,1);\n")
	p("  plot(t,m,'LineWidth',1.2,t-ydelay,y,'LineWidth',1.2);\n")
	p("  axis([0 n -1.2 1.2]);\n")
	p("  xlabel('Normalized Time [t/T_s]');\n")
	p("  ylabel('m(t), y(t)');\n")
	p("  grid on;\n")

	// spectral responses
	p("nfft=2^(1+nextpow2(n));\n")
	p("f=[0:(nfft-1)]/nfft - 0.5;\n")
	p("w = hamming(n)';\n")
	p("g = 1 / (mean(w) * n);\n")
	p("M = 20*log10(abs(fftshift(fft(m.*w*g,nfft))));\n")
	p("R = 20*log10(abs(fftshift(fft(r.*w*g,nfft))));\n")
	p("Y = 20*log10(abs(fftshift(fft(y.*w*g,nfft))));\n")

	p("subplot(3,1,2);\n")
	p("  plot(f,M,'LineWidth',1.2,f,Y,'LineWidth',1.2);\n")
	p("  axis([-0.5 0.5 -80 20]);\n")
	p("  grid on;\n")
	p("  xlabel('Normalized Frequency [f/F_s]');\n")
	p("  ylabel('Audio PSD [dB]');\n")

	p("subplot(3,1,3);\n")
	p("  plot(f,R,'LineWidth',1.2,'Color',[0.5 0.25 0]);\n")
	p("  axis([-0.5 0.5 -80 20]);\n")
	p("  grid on;\n")
	p("  xlabel('Normalized Frequency [f/F_s]');\n")
	p("  ylabel('RF PSD [dB]');\n")

	return bw.Flush()
}
