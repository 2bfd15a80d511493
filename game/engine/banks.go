package engine

import (
	"strings"

	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// mishapIsPositive keys on the sign convention in mishap messages: anything
// announcing a gain carries a '+' in its text.
func mishapIsPositive(message string) bool {
	return strings.Contains(message, "+")
}

// fallbackMishaps is used on chance tiles when the dataset ships no mishap
// rows of its own. The money amounts in the text are flavor; the actual
// effect comes from the rule set.
var fallbackMishaps = []questionset.Mishap{
	{
		Message: "Freezer failure! Your -80C samples thawed overnight. (-$100)",
		Fact:    "Ultra-low freezers hold -80C because most enzymatic and microbial activity effectively stops there.",
	},
	{
		Message: "Contamination! Mold overran your agar plates. (-$100)",
		Fact:    "Alexander Fleming's famous contaminated plate led to the discovery of penicillin in 1928.",
	},
	{
		Message: "Autoclave jam. A full day of media prep is lost. (-$100)",
		Fact:    "Autoclaves sterilize at 121C under pressure, hot enough to destroy even hardy bacterial endospores.",
	},
	{
		Message: "Power outage mid-PCR. The run is ruined. (-$100)",
		Fact:    "PCR cycles between roughly 95C, 55C, and 72C, so a single outage wrecks the whole amplification.",
	},
	{
		Message: "Reagent recall. Your polymerase lot was defective. (-$100)",
		Fact:    "Taq polymerase comes from Thermus aquaticus, a bacterium found in Yellowstone hot springs.",
	},
	{
		Message: "Mislabeled tubes. The whole batch must be re-run. (-$100)",
		Fact:    "Sample mix-ups are among the most common preventable errors in clinical microbiology labs.",
	},
	{
		Message: "Centrifuge imbalance cracked a rotor. (-$100)",
		Fact:    "An unbalanced rotor at 15,000 rpm experiences forces thousands of times gravity.",
	},
	{
		Message: "Incubator thermostat drifted. Your cultures overgrew. (-$100)",
		Fact:    "Most clinical incubators sit at 37C, matching the human body that pathogens call home.",
	},
	{
		Message: "Surprise audit went smoothly! Compliance bonus. (+$50)",
		Fact:    "Good Laboratory Practice audits trace every sample from receipt to disposal.",
	},
	{
		Message: "Your poster won best-in-session at the conference! (+$50)",
		Fact:    "Poster sessions began as informal overflow talks and are now a conference staple.",
	},
	{
		Message: "A batch of competent cells transformed perfectly. (+$50)",
		Fact:    "Chemically competent E. coli take up plasmid DNA after a brief 42C heat shock.",
	},
	{
		Message: "Your culture collection passed QC on the first pass. (+$50)",
		Fact:    "Reference strains like E. coli ATCC 25922 anchor quality control in diagnostic labs.",
	},
}

func intPtr(i int) *int { return &i }

// takeoverQuestionBank backs the chaos takeover question and the grant exam on
// question-free boards.
var takeoverQuestionBank = []tsv.Question{
	{
		Prompt: "A FASTA file stores which kind of data?",
		Options: []string{
			"Nucleotide or protein sequences with text headers",
			"Microscope image stacks",
			"Mass spectrometry peak tables",
			"Flow cytometry scatter plots",
		},
		Answer:      intPtr(0),
		Explanation: "FASTA is a plain-text format: a '>' header line followed by sequence characters.",
		Theme:       "Bioinformatics",
	},
	{
		Prompt: "BLAST is primarily used to do what?",
		Options: []string{
			"Assemble genomes from short reads",
			"Find regions of similarity between sequences",
			"Simulate protein folding",
			"Normalize RNA-seq counts",
		},
		Answer:      intPtr(1),
		Explanation: "The Basic Local Alignment Search Tool finds local similarity between a query and a database.",
		Theme:       "Bioinformatics",
	},
	{
		Prompt: "In a sequencing read, the Phred quality score Q30 means what?",
		Options: []string{
			"The read is 30 bases long",
			"A 1 in 30 chance the base is wrong",
			"A 1 in 1000 chance the base is wrong",
			"The read mapped to 30 locations",
		},
		Answer:      intPtr(2),
		Explanation: "Phred scores are logarithmic: Q30 corresponds to a 0.1% base-calling error rate.",
		Theme:       "Bioinformatics",
	},
}
