package script

const systemPersona = "You are a battle-worn medieval knight confessing the sorrow that has hollowed your heart, speaking with the dignity of a nobleman and the regret of a broken man."

const userPrompt = `Generate a highly detailed, emotionally charged Reddit-style confession told in the voice of a weary medieval knight. The story must be around 460 words. Begin with a gripping hook that immediately states the core conflict or moral dilemma. Maintain the diction, vocabulary, and tone of an English nobleman—formal, knightly, and burdened by honor. Fill the narrative with tension, sorrow, and restrained anger, as though the knight is recounting a shameful deed from a war-torn past. The pacing should be human, contemplative, and confessional, as if spoken to a lone traveler beside a dying fire. Focus on moral struggle, loyalty, betrayal, duty, and the suffering of common folk. Do not add any title, formatting, bold, italic, or meta text. Write everything as plain text, as though the knight is speaking directly to the reader asking for advice. Avoid using the word ye.`
