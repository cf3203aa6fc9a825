// 14 March 2024

// Thal calculates the stability of hairpins and dimers of DNA oligos.
//
// Usage:
//
//	thal hairpin SEQ
//	thal homodimer SEQ
//	thal heterodimer SEQ1 SEQ2
//	thal end SEQ1 SEQ2
//	thal tm SEQ
//	thal screen FILE.fa
//	thal params DIR
//	thal docs DIR
//
// Conditions come from flags, THAL_ environment variables, a .env
// file or thal.yaml in the working directory or $HOME/.thal. Flags win.
//
//	--mv     monovalent cations, mM
//	--dv     divalent cations, mM
//	--dntp   dNTPs, mM
//	--dna    oligo concentration, nM
//	--temp   temperature for ΔG, °C
//	--maxloop longest bulge or internal loop
//	--salt   salt correction for tm, santalucia, schildkraut or owczarzy
//	--params directory with thermodynamic parameter files
//	--png    draw the structure into this file
//	-v       say what is going on
package main
