// 31 July 2020

/*
Randseq is for making random DNA oligos for testing the code.
Usage:

	randseq [options] fname nseq length

will generate nseq sequences of length length and write them to fname.
A fname of "-" writes to standard output.

Flags:

	-s
		no white space scattered through the output sequences
	-e
		provoke errors. One sequence gets a character which is not
		a nucleotide.
	-gc
		fraction of G and C
	-c
		comment for each sequence
	-r
		random number seed
	-hp
		only keep oligos whose hairpin and homodimer melt below this
		temperature (°C). Zero keeps everything.

We are most interested in benchmarking and parsing, so the content is not so important.
The only question that comes up is white space. It should generally be
unpredictable, so we generate funny cases.
*/
package main
