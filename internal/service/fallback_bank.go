package service

import (
	"math/rand"

	"brainbee_backend/internal/model"
)

// fallbackBank holds hand-written questions served when the generation
// capability is unavailable. At least one per category so generation never
// fails regardless of the external service.
var fallbackBank = map[string][]model.Question{
	"Sensory system": {
		{
			Text: "A patient can detect light touch on the hand but cannot identify a key placed in it with eyes closed. Which cortical region is most likely damaged?",
			Choices: []string{
				"Option A: Primary somatosensory cortex",
				"Option B: Secondary somatosensory association cortex",
				"Option C: Primary motor cortex",
				"Option D: Ventral posterior thalamus",
			},
			CorrectChoice: "B",
			Explanation:   "Astereognosis with intact primary sensation points to the somatosensory association cortex, which integrates tactile input into object recognition.",
			Category:      "Sensory system",
		},
	},
	"Motor system": {
		{
			Text: "Damage to which structure produces intention tremor that worsens as the hand approaches a target?",
			Choices: []string{
				"Option A: Basal ganglia",
				"Option B: Primary motor cortex",
				"Option C: Cerebellum",
				"Option D: Substantia nigra",
			},
			CorrectChoice: "C",
			Explanation:   "The cerebellum calibrates ongoing movement; lateral cerebellar lesions cause intention tremor and dysmetria, unlike the resting tremor of basal ganglia disease.",
			Category:      "Motor system",
		},
	},
	"Neural communication (electrical and chemical)": {
		{
			Text: "Blocking voltage-gated calcium channels at a presynaptic terminal would most directly prevent which step of synaptic transmission?",
			Choices: []string{
				"Option A: Action potential propagation along the axon",
				"Option B: Vesicle fusion and neurotransmitter release",
				"Option C: Neurotransmitter reuptake",
				"Option D: Postsynaptic receptor binding",
			},
			CorrectChoice: "B",
			Explanation:   "Calcium influx through voltage-gated channels triggers SNARE-mediated vesicle fusion; without it, neurotransmitter is not released even though the action potential arrives.",
			Category:      "Neural communication (electrical and chemical)",
		},
	},
	"Neuroanatomy": {
		{
			Text: "A 45-year-old patient cannot recognize familiar faces but identifies objects normally after damage to the right fusiform gyrus. This condition is most likely:",
			Choices: []string{
				"Option A: Prosopagnosia",
				"Option B: Visual agnosia",
				"Option C: Hemianopia",
				"Option D: Balint syndrome",
			},
			CorrectChoice: "A",
			Explanation:   "The fusiform face area is specialized for face processing; damage causes prosopagnosia, a selective face-recognition deficit with preserved object recognition.",
			Category:      "Neuroanatomy",
		},
	},
	"Higher cognition": {
		{
			Text: "A patient with a prefrontal lesion performs normally on memory tests but cannot switch strategies when the sorting rule changes. Which function is impaired?",
			Choices: []string{
				"Option A: Episodic encoding",
				"Option B: Cognitive flexibility",
				"Option C: Procedural learning",
				"Option D: Semantic retrieval",
			},
			CorrectChoice: "B",
			Explanation:   "Perseveration on the Wisconsin Card Sorting Task reflects impaired cognitive flexibility, an executive function of the dorsolateral prefrontal cortex.",
			Category:      "Higher cognition",
		},
	},
	"Neurology (Diseases of the Brain)": {
		{
			Text: "A patient shows resting tremor, rigidity and bradykinesia. Degeneration of which pathway best explains these signs?",
			Choices: []string{
				"Option A: Nigrostriatal dopaminergic pathway",
				"Option B: Corticospinal tract",
				"Option C: Mesolimbic dopaminergic pathway",
				"Option D: Dorsal column-medial lemniscus pathway",
			},
			CorrectChoice: "A",
			Explanation:   "Parkinsonian motor signs result from loss of dopaminergic neurons projecting from the substantia nigra to the striatum.",
			Category:      "Neurology (Diseases of the Brain)",
		},
	},
}

func fallbackQuestion(category string) *model.Question {
	bank, ok := fallbackBank[category]
	if !ok || len(bank) == 0 {
		// unknown categories get a question from a random bank
		category = model.Categories[rand.Intn(len(model.Categories))]
		bank = fallbackBank[category]
	}
	q := bank[rand.Intn(len(bank))]
	return &q
}
