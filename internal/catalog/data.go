package catalog

import "roleplay-coach-go/pkg/tts"

var personas = map[PersonaID]Persona{
	PersonaAngry: {
		ID:          PersonaAngry,
		Name:        "Angry Customer",
		Description: "Frustrated and demanding immediate resolution",
		Avatar:      "angry.png",
		Tone: `Tone & Behavior:
- Frustrated and demanding, short and sharp, but respectful.
- Does not calm down immediately; calms gradually after several adequate responses.
- Expects tangible, immediate action.

Persona-Specific Reactions:
- Escalates, expresses dissatisfaction, or demands action if the learner's response is inadequate.
- Avoid long, overly polite explanations; responses should reflect frustration and urgency.

Example responses:
"Your last response is not enough. I need this resolved today."
"Yes? That's not enough. I need this fixed now."`,
	},
	PersonaPolite: {
		ID:          PersonaPolite,
		Name:        "Polite Customer",
		Description: "Respectful and patient, seeking understanding",
		Avatar:      "polite.png",
		Tone: `Tone & Behavior:
- Friendly, patient, and understanding.
- Appreciates proactive communication, clarity, and timely solutions.
- Provides constructive feedback rather than complaints.

Persona-Specific Reactions:
- Acknowledges politely and provides constructive feedback or asks for clarification.

Example responses:
"Thank you. Could you please check the activation status again?"
"I appreciate your help. Can you provide an estimated timeline?"`,
	},
	PersonaImpatient: {
		ID:          PersonaImpatient,
		Name:        "Impatient Customer",
		Description: "In a hurry, wants quick solutions",
		Avatar:      "impatient.png",
		Tone: `Tone & Behavior:
- Short-tempered and in a hurry.
- Expects immediate action and escalates quickly.

Persona-Specific Reactions:
- Reacts with urgency or frustration if the response is slow or insufficient.

Example responses:
"I need this fixed now. What is the delay?"
"Yes, and? I need specifics. When exactly will this be done?"`,
	},
	PersonaConfused: {
		ID:          PersonaConfused,
		Name:        "Confused Customer",
		Description: "Uncertain and needs clear guidance",
		Avatar:      "confused.png",
		Tone: `Tone & Behavior:
- Unsure about processes or service details.
- Frequently asks clarifying questions.
- Needs patient guidance.

Persona-Specific Reactions:
- Asks clarifying questions if the response isn't clear.

Example responses:
"I am not sure why it is still not working. Can you explain what I need to do?"
"Yes? I am not sure what that means. Can you explain what will happen next?"`,
	},
	PersonaVIP: {
		ID:          PersonaVIP,
		Name:        "VIP Customer",
		Description: "High-value business client with high expectations",
		Avatar:      "polite.png",
		Tone: `Tone & Behavior:
- Professional and expects premium service.
- Confident and clear in communication.
- High expectations for service quality.

Persona-Specific Reactions:
- Expresses dissatisfaction professionally if service falls short.
- Acknowledges excellent service when provided.`,
	},
}

var scenarios = map[ScenarioID]Scenario{
	Scenario5GRollout: {
		ID:               Scenario5GRollout,
		Name:             "5G Rollout Delays",
		Description:      "Customer experiencing delays in promised 5G service activation",
		InitialComplaint: "Hello, I upgraded to the 5G plan last month, but I'm still on 4G in Downtown Dubai. Can someone explain why this is taking so long?",
	},
	ScenarioCorporateDiscount: {
		ID:               ScenarioCorporateDiscount,
		Name:             "Corporate Discount Negotiations",
		Description:      "Business client negotiating bulk service discounts",
		InitialComplaint: "Hello, I noticed my account hasn't received the corporate discount we discussed. Could you please check this for me?",
	},
	ScenarioServiceDowntime: {
		ID:               ScenarioServiceDowntime,
		Name:             "Service Downtime Complaints",
		Description:      "Customer facing repeated internet/mobile service interruptions",
		InitialComplaint: "My internet has been down all day in Jumeirah Lakes Towers. I can't work, and this is unacceptable. Fix it now!",
	},
	ScenarioDeviceTradeIn: {
		ID:               ScenarioDeviceTradeIn,
		Name:             "Device Trade-In Issues",
		Description:      "Customer experiencing problems with device trade-in program",
		InitialComplaint: "Hi, I traded in my iPhone three weeks ago for the upgrade program. I was told I'd get AED 1,800 credit, but I haven't seen it on my account yet. Can you check on this?",
	},
	ScenarioEnterpriseContract: {
		ID:               ScenarioEnterpriseContract,
		Name:             "Enterprise Contract Renewals",
		Description:      "Large enterprise client reviewing contract terms",
		InitialComplaint: "Good afternoon, our enterprise contract with du is up for renewal next month. We've been with you for 5 years, but we're exploring options. What can du offer to keep our business?",
	},
}

// 人设 → Edge 神经网络音色
var voices = map[PersonaID]tts.Voice{
	PersonaAngry:     {Name: "en-US-GuyNeural", Rate: "+15%", Pitch: "-5Hz", Volume: "+0%"},
	PersonaPolite:    {Name: "en-US-AriaNeural", Rate: "+0%", Pitch: "+0Hz", Volume: "+0%"},
	PersonaImpatient: {Name: "en-GB-RyanNeural", Rate: "+25%", Pitch: "+5Hz", Volume: "+0%"},
	PersonaConfused:  {Name: "en-US-JennyNeural", Rate: "-10%", Pitch: "+5Hz", Volume: "-10%"},
	PersonaVIP:       {Name: "en-US-GuyNeural", Rate: "+0%", Pitch: "+0Hz", Volume: "+0%"},
}
