package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/narrative_contract.txt
var NarrativeContractTxt []byte

//go:embed data/repair_instruction.txt
var RepairInstructionTxt []byte
